// Package billing models what a tenant has paid for.
//
// A BillingEntity is the billing profile of one (tenant, billing id) pair. It
// is created on the first checkout and enriched from later checkout payloads
// until the profile is complete. A Subscription binds a billing entity to a
// plan; paid subscriptions carry the checkout order that activated them so a
// repeated payment notification never provisions twice. FeatureUsage rows are
// the per-feature counters seeded from the plan when a subscription starts.
package billing
