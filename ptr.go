package ldapext

// Pointer copy helpers. Optional fields are held as pointers; getters and
// Clone implementations hand out copies so callers cannot mutate a control's
// snapshot through a returned pointer.

func copyStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyLongPtr(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyBoolPtr(p *bool) *bool {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyStringSlice(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

func copyByteSlice(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
