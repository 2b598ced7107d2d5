package checkout

import (
	"strings"

	"github.com/erp/checkout/internal/domain/billing"
	"github.com/erp/checkout/internal/domain/checkout"
	"github.com/samber/lo"
)

// GST treatments understood by the provider
const (
	gstTreatmentBusiness = "business_gst"
	gstTreatmentConsumer = "consumer"
)

// buildHostedPagePayload assembles the provider request for a new hosted
// page. reference_id carries the order id back on webhooks.
func buildHostedPagePayload(req CreateSessionRequest, orderID, pricebookID string) map[string]any {
	payload := map[string]any{
		"reference_id": orderID,
		"pricebook_id": pricebookID,
		"plan":         map[string]any{"plan_code": req.PlanCode},
	}
	putIfText(payload, "redirect_url", req.RedirectURL)

	if gstNo := strings.TrimSpace(req.GSTNo); gstNo != "" {
		payload["gst_treatment"] = gstTreatmentBusiness
		payload["gst_no"] = gstNo
	} else {
		payload["gst_treatment"] = gstTreatmentConsumer
	}
	if pos := placeOfSupply(req); pos != "" {
		payload["place_of_supply"] = pos
	}

	if req.IsZohoLinked && strings.TrimSpace(req.ZohoCustomerID) != "" {
		payload["customer_id"] = strings.TrimSpace(req.ZohoCustomerID)
		return payload
	}

	customer := map[string]any{}
	putIfText(customer, "display_name", req.DisplayName)
	putIfText(customer, "first_name", req.FirstName)
	putIfText(customer, "last_name", req.LastName)
	putIfText(customer, "email", req.Email)
	putIfText(customer, "phone", req.Phone)
	putIfText(customer, "mobile", req.Mobile)
	putIfText(customer, "company_name", req.CompanyName)
	putIfText(customer, "website", req.Website)
	if bill := req.BillingAddress.fields(); len(bill) > 0 {
		customer["billing_address"] = bill
	}
	if ship := req.ShippingAddress.fields(); len(ship) > 0 {
		customer["shipping_address"] = ship
	}
	customer["pricebook_id"] = pricebookID
	payload["customer"] = customer
	return payload
}

// placeOfSupply prefers the GST state code over the billing state code
func placeOfSupply(req CreateSessionRequest) string {
	pos, _ := lo.Coalesce(
		strings.ToUpper(strings.TrimSpace(req.GSTStateCode)),
		strings.ToUpper(strings.TrimSpace(req.BillingAddress.StateCode)),
	)
	return pos
}

func (a Address) fields() map[string]any {
	m := map[string]any{}
	putIfText(m, "attention", a.Attention)
	putIfText(m, "street", a.Street)
	putIfText(m, "city", a.City)
	putIfText(m, "state", a.State)
	putIfText(m, "state_code", a.StateCode)
	putIfText(m, "zip", a.Zip)
	putIfText(m, "country", a.Country)
	putIfText(m, "fax", a.Fax)
	return m
}

func (a Address) oneLine() string {
	return billing.JoinNonEmpty(", ", a.Street, a.City, a.Zip, a.Country)
}

func putIfText(m map[string]any, key, value string) {
	if v := strings.TrimSpace(value); v != "" {
		m[key] = v
	}
}

// hintsFromRequest seeds a new billing profile from a checkout request
func hintsFromRequest(req CreateSessionRequest, pricebookID string) billing.ProfileHints {
	name, _ := lo.Coalesce(strings.TrimSpace(req.CompanyName), strings.TrimSpace(req.DisplayName))
	return billing.ProfileHints{
		Name:           name,
		FName:          req.FirstName,
		LName:          req.LastName,
		Email:          req.Email,
		Mobile:         req.Mobile,
		BillingAddress: req.BillingAddress.oneLine(),
		StateName:      req.BillingAddress.State,
		StateCode:      req.BillingAddress.StateCode,
		GSTNumber:      req.GSTNo,
		GSTStateCode:   req.GSTStateCode,
		PricebookID:    pricebookID,
	}
}

// hintsFromPayload reads profile hints back out of the stored provider
// request. Anything unparsable yields only the pricebook hint.
func hintsFromPayload(requestJSON, pricebookID string) billing.ProfileHints {
	hints := billing.ProfileHints{PricebookID: pricebookID}
	if strings.TrimSpace(requestJSON) == "" {
		return hints
	}
	doc, err := checkout.ParseDocument([]byte(requestJSON))
	if err != nil {
		return hints
	}

	display := doc.Text("customer.display_name")
	first := doc.Text("customer.first_name")
	last := doc.Text("customer.last_name")
	hints.Name, _ = lo.Coalesce(doc.Text("customer.company_name"), display, billing.JoinNonEmpty(" ", first, last))
	hints.FName = first
	hints.LName = last
	hints.Email = doc.Text("customer.email")
	hints.Mobile, _ = lo.Coalesce(doc.Text("customer.mobile"), doc.Text("customer.phone"))
	hints.BillingAddress = billing.JoinNonEmpty(", ",
		doc.Text("customer.billing_address.street"),
		doc.Text("customer.billing_address.city"),
		doc.Text("customer.billing_address.zip"),
		doc.Text("customer.billing_address.country"),
	)
	hints.StateName = doc.Text("customer.billing_address.state")
	hints.StateCode = doc.Text("customer.billing_address.state_code")
	hints.GSTNumber = doc.Text("gst_no")
	hints.PlaceOfSupply = doc.Text("place_of_supply")
	return hints
}
