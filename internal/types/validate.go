package types

import "github.com/go-playground/validator/v10"

// validate caches struct metadata, so one instance serves every request type.
var validate = validator.New(validator.WithRequiredStructEnabled())
