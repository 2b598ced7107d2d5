package billing

import "errors"

// ErrProvisioningPreconditions is returned when a paid checkout cannot be
// turned into a subscription because its billing entity, plan or price is missing
var ErrProvisioningPreconditions = errors.New("provisioning preconditions not met")
