package provider

import "errors"

var errNotAuthorized = errors.New("location updates requested without authorization")
