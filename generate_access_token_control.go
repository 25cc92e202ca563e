package ldapext

import (
	ber "github.com/go-asn1-ber/asn1-ber"
)

const generateAccessTokenConstruct = "generate access token request control"

// GenerateAccessTokenRequestControl asks the server to generate an access
// token for the authenticated identity and return it with the bind result.
// The control carries no value; its presence alone conveys the request.
type GenerateAccessTokenRequestControl struct {
	criticality bool
}

// NewGenerateAccessTokenRequestControl creates the control.
func NewGenerateAccessTokenRequestControl(criticality bool) *GenerateAccessTokenRequestControl {
	return &GenerateAccessTokenRequestControl{criticality: criticality}
}

// GetControlType returns the control OID.
func (c *GenerateAccessTokenRequestControl) GetControlType() string {
	return GenerateAccessTokenRequestControlOID
}

// ControlName returns the human-readable control name.
func (c *GenerateAccessTokenRequestControl) ControlName() string {
	return controlNames[GenerateAccessTokenRequestControlOID]
}

// Criticality reports whether the control is critical.
func (c *GenerateAccessTokenRequestControl) Criticality() bool {
	return c.criticality
}

// HasValue reports whether the control carries a value. Always false for
// this control.
func (c *GenerateAccessTokenRequestControl) HasValue() bool {
	return false
}

// ValueBytes returns nil; the control has no value.
func (c *GenerateAccessTokenRequestControl) ValueBytes() []byte {
	return nil
}

// Encode returns the BER packet representation of the control.
func (c *GenerateAccessTokenRequestControl) Encode() *ber.Packet {
	return encodeControlPacket(GenerateAccessTokenRequestControlOID, c.criticality, nil)
}

// String returns a human-readable description of the control.
func (c *GenerateAccessTokenRequestControl) String() string {
	return c.ControlName() + " (" + GenerateAccessTokenRequestControlOID + ")"
}

// DecodeGenerateAccessTokenRequestControl reconstructs the control from its
// generic form. A present value is rejected: this control is defined to have
// none, so a value indicates a different wire format than expected.
func DecodeGenerateAccessTokenRequestControl(criticality bool, value []byte) (*GenerateAccessTokenRequestControl, error) {
	if value != nil {
		return nil, decodeErrorf(generateAccessTokenConstruct, "control must not have a value, got %d bytes", len(value))
	}
	return &GenerateAccessTokenRequestControl{criticality: criticality}, nil
}
