package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildHostedPagePayload(t *testing.T) {
	t.Run("new customer with gst", func(t *testing.T) {
		req := validRequest()
		req.GSTNo = " 27AAAAA0000A1Z5 "
		req.GSTStateCode = "ka"
		req.ShippingAddress = Address{City: "Pune"}

		p := buildHostedPagePayload(req, "ord-1", "PB-INR")
		assert.Equal(t, "ord-1", p["reference_id"])
		assert.Equal(t, map[string]any{"plan_code": "PRO-M"}, p["plan"])
		assert.Equal(t, "https://app.test/done", p["redirect_url"])
		assert.Equal(t, "business_gst", p["gst_treatment"])
		assert.Equal(t, "27AAAAA0000A1Z5", p["gst_no"])
		assert.Equal(t, "KA", p["place_of_supply"])
		assert.NotContains(t, p, "customer_id")

		customer := p["customer"].(map[string]any)
		assert.Equal(t, "Acme Pvt Ltd", customer["company_name"])
		assert.Equal(t, "PB-INR", customer["pricebook_id"])
		assert.NotContains(t, customer, "phone")
		assert.Equal(t, map[string]any{"city": "Pune"}, customer["shipping_address"])
		bill := customer["billing_address"].(map[string]any)
		assert.Equal(t, "mh", bill["state_code"])
		assert.NotContains(t, bill, "fax")
	})

	t.Run("linked customer", func(t *testing.T) {
		req := validRequest()
		req.IsZohoLinked = true
		req.ZohoCustomerID = "cust-42"
		req.RedirectURL = ""
		req.BillingAddress = Address{}

		p := buildHostedPagePayload(req, "ord-2", "PB-USD")
		assert.Equal(t, "cust-42", p["customer_id"])
		assert.Equal(t, "consumer", p["gst_treatment"])
		assert.NotContains(t, p, "customer")
		assert.NotContains(t, p, "redirect_url")
		assert.NotContains(t, p, "place_of_supply")
	})

	t.Run("linked flag without customer id sends customer block", func(t *testing.T) {
		req := validRequest()
		req.IsZohoLinked = true
		p := buildHostedPagePayload(req, "ord-3", "PB-USD")
		assert.Contains(t, p, "customer")
	})
}

func TestHintsFromPayload(t *testing.T) {
	t.Run("name falls back to first and last", func(t *testing.T) {
		h := hintsFromPayload(`{"customer":{"first_name":"Asha","last_name":"Rao","mobile":"+91-1"}}`, "PB-1")
		assert.Equal(t, "Asha Rao", h.Name)
		assert.Equal(t, "+91-1", h.Mobile)
		assert.Equal(t, "PB-1", h.PricebookID)
	})

	t.Run("display name beats first and last", func(t *testing.T) {
		h := hintsFromPayload(`{"customer":{"display_name":"Acme","first_name":"Asha"}}`, "")
		assert.Equal(t, "Acme", h.Name)
	})

	t.Run("garbage keeps only pricebook", func(t *testing.T) {
		h := hintsFromPayload(`not json`, "PB-1")
		assert.Equal(t, "PB-1", h.PricebookID)
		assert.Empty(t, h.Name)
	})
}
