package ldapext

// Shared field-level validators applied on both paths: setters surface them
// directly as usage errors, decoders re-run them against decoded content and
// wrap any violation in a DecodeError so structurally valid but semantically
// invalid wire values are rejected exactly like bad constructor arguments.

func checkNonNegativeInt(field string, v int) *UsageError {
	if v < 0 {
		return usageErrorf(field, v, "must be greater than or equal to zero, got %d", v)
	}
	return nil
}

func checkNonNegativeLong(field string, v int64) *UsageError {
	if v < 0 {
		return usageErrorf(field, v, "must be greater than or equal to zero, got %d", v)
	}
	return nil
}

func checkPositiveInt(field string, v int) *UsageError {
	if v <= 0 {
		return usageErrorf(field, v, "must be greater than zero, got %d", v)
	}
	return nil
}

func checkNonEmptyString(field string, v string) *UsageError {
	if v == "" {
		return usageErrorf(field, v, "must not be empty")
	}
	return nil
}

// checkTimeoutRange validates a paired min/max timeout: both sides must be
// present or both absent, both must be non-negative, and max must not be
// less than min.
func checkTimeoutRange(minField, maxField string, min, max *int64) *UsageError {
	if min == nil && max == nil {
		return nil
	}
	if min == nil {
		return usageErrorf(minField, nil, "must be provided when %s is provided", maxField)
	}
	if max == nil {
		return usageErrorf(maxField, nil, "must be provided when %s is provided", minField)
	}
	if ue := checkNonNegativeLong(minField, *min); ue != nil {
		return ue
	}
	if ue := checkNonNegativeLong(maxField, *max); ue != nil {
		return ue
	}
	if *max < *min {
		return usageErrorf(maxField, *max, "must be greater than or equal to %s (%d), got %d", minField, *min, *max)
	}
	return nil
}

// checkHostPort validates a paired address/port: both present or both
// absent, a non-empty address, and a port in the valid TCP range.
func checkHostPort(addressField, portField string, address *string, port *int) *UsageError {
	if address == nil && port == nil {
		return nil
	}
	if address == nil {
		return usageErrorf(addressField, nil, "must be provided when %s is provided", portField)
	}
	if port == nil {
		return usageErrorf(portField, nil, "must be provided when %s is provided", addressField)
	}
	if ue := checkNonEmptyString(addressField, *address); ue != nil {
		return ue
	}
	if *port < 1 || *port > 65535 {
		return usageErrorf(portField, *port, "must be between 1 and 65535, got %d", *port)
	}
	return nil
}
