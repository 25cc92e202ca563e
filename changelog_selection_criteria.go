package ldapext

import (
	"bytes"
	"strings"

	ber "github.com/go-asn1-ber/asn1-ber"

	"github.com/pingidentity/ldapsdk-sub006/internal/berutil"
)

// Discriminant tags for the changelog batch change selection criteria union.
// The tag on the outer element selects the variant.
const (
	changeSelectionTagAllAttributes    ber.Tag = 2
	changeSelectionTagIgnoreAttributes ber.Tag = 3

	ignoreAttributesTagOperational ber.Tag = 0
	ignoreAttributesTagNames       ber.Tag = 1
)

const changeSelectionConstruct = "changelog batch change selection criteria"

// ChangelogBatchChangeSelectionCriteria restricts which changelog entries a
// get changelog batch request returns. It is a closed union: the only
// implementations are AllAttributesChangeSelectionCriteria and
// IgnoreAttributesChangeSelectionCriteria, and decode dispatches on the
// outer element's discriminant tag.
type ChangelogBatchChangeSelectionCriteria interface {
	// Encode returns the tagged element for embedding in a request value.
	Encode() *ber.Packet

	// String returns a human-readable description of the criteria.
	String() string

	criteriaTag() ber.Tag
}

// AllAttributesChangeSelectionCriteria matches changes that targeted all of
// the named attributes.
type AllAttributesChangeSelectionCriteria struct {
	attributeNames []string
}

// NewAllAttributesChangeSelectionCriteria creates criteria matching changes
// that targeted every one of the given attribute names. At least one name is
// required and none may be empty.
func NewAllAttributesChangeSelectionCriteria(attributeNames ...string) (*AllAttributesChangeSelectionCriteria, error) {
	if len(attributeNames) == 0 {
		return nil, usageErrorf("attributeNames", nil, "at least one attribute name is required")
	}
	for _, name := range attributeNames {
		if ue := checkNonEmptyString("attributeNames", name); ue != nil {
			return nil, ue
		}
	}
	return &AllAttributesChangeSelectionCriteria{attributeNames: copyStringSlice(attributeNames)}, nil
}

// AttributeNames returns the attribute names the criteria match on.
func (c *AllAttributesChangeSelectionCriteria) AttributeNames() []string {
	return copyStringSlice(c.attributeNames)
}

// Encode returns the tagged element representation.
func (c *AllAttributesChangeSelectionCriteria) Encode() *ber.Packet {
	p := berutil.NewContextSequence(changeSelectionTagAllAttributes, "All Attributes Criteria")
	for _, name := range c.attributeNames {
		p.AppendChild(ber.NewString(ber.ClassUniversal, ber.TypePrimitive, ber.TagOctetString, name, "Attribute Name"))
	}
	return p
}

// String returns a human-readable description of the criteria.
func (c *AllAttributesChangeSelectionCriteria) String() string {
	return "all attributes criteria (attributes: " + strings.Join(c.attributeNames, ", ") + ")"
}

func (c *AllAttributesChangeSelectionCriteria) criteriaTag() ber.Tag {
	return changeSelectionTagAllAttributes
}

// IgnoreAttributesChangeSelectionCriteria matches changes that targeted at
// least one attribute outside the ignored set.
type IgnoreAttributesChangeSelectionCriteria struct {
	ignoreOperationalAttributes bool
	attributeNames              []string
}

// NewIgnoreAttributesChangeSelectionCriteria creates criteria matching
// changes that touched something other than the ignored attributes. The name
// list may be empty when only operational attributes are ignored, but no
// provided name may be empty.
func NewIgnoreAttributesChangeSelectionCriteria(ignoreOperationalAttributes bool, attributeNames ...string) (*IgnoreAttributesChangeSelectionCriteria, error) {
	for _, name := range attributeNames {
		if ue := checkNonEmptyString("attributeNames", name); ue != nil {
			return nil, ue
		}
	}
	return &IgnoreAttributesChangeSelectionCriteria{
		ignoreOperationalAttributes: ignoreOperationalAttributes,
		attributeNames:              copyStringSlice(attributeNames),
	}, nil
}

// IgnoreOperationalAttributes reports whether operational attributes are
// ignored.
func (c *IgnoreAttributesChangeSelectionCriteria) IgnoreOperationalAttributes() bool {
	return c.ignoreOperationalAttributes
}

// AttributeNames returns the ignored attribute names.
func (c *IgnoreAttributesChangeSelectionCriteria) AttributeNames() []string {
	return copyStringSlice(c.attributeNames)
}

// Encode returns the tagged element representation.
func (c *IgnoreAttributesChangeSelectionCriteria) Encode() *ber.Packet {
	p := berutil.NewContextSequence(changeSelectionTagIgnoreAttributes, "Ignore Attributes Criteria")
	p.AppendChild(berutil.NewBooleanField(ignoreAttributesTagOperational, c.ignoreOperationalAttributes, "Ignore Operational Attributes"))
	names := berutil.NewContextSequence(ignoreAttributesTagNames, "Ignored Attribute Names")
	for _, name := range c.attributeNames {
		names.AppendChild(ber.NewString(ber.ClassUniversal, ber.TypePrimitive, ber.TagOctetString, name, "Attribute Name"))
	}
	p.AppendChild(names)
	return p
}

// String returns a human-readable description of the criteria.
func (c *IgnoreAttributesChangeSelectionCriteria) String() string {
	return "ignore attributes criteria (attributes: " + strings.Join(c.attributeNames, ", ") + ")"
}

func (c *IgnoreAttributesChangeSelectionCriteria) criteriaTag() ber.Tag {
	return changeSelectionTagIgnoreAttributes
}

// DecodeChangelogBatchChangeSelectionCriteria reconstructs a criteria
// variant from its encoded element. The discriminant is the element's
// context tag; an unrecognized tag fails rather than defaulting.
func DecodeChangelogBatchChangeSelectionCriteria(value []byte) (ChangelogBatchChangeSelectionCriteria, error) {
	r := bytes.NewReader(value)
	p, err := ber.ReadPacket(r)
	if err != nil {
		return nil, wrapDecodeError(changeSelectionConstruct, err, "malformed element")
	}
	if r.Len() != 0 {
		return nil, decodeErrorf(changeSelectionConstruct, "%d trailing bytes after element", r.Len())
	}
	return decodeChangeSelectionCriteriaPacket(p)
}

func decodeChangeSelectionCriteriaPacket(p *ber.Packet) (ChangelogBatchChangeSelectionCriteria, error) {
	if p.ClassType != ber.ClassContext || p.TagType != ber.TypeConstructed {
		return nil, decodeErrorf(changeSelectionConstruct, "expected constructed context element, got class %d", p.ClassType)
	}
	switch p.Tag {
	case changeSelectionTagAllAttributes:
		return decodeAllAttributesCriteria(p)
	case changeSelectionTagIgnoreAttributes:
		return decodeIgnoreAttributesCriteria(p)
	default:
		return nil, decodeErrorf(changeSelectionConstruct, "unrecognized criteria discriminant tag %d", p.Tag)
	}
}

func decodeAllAttributesCriteria(p *ber.Packet) (*AllAttributesChangeSelectionCriteria, error) {
	if len(p.Children) == 0 {
		return nil, decodeErrorf(changeSelectionConstruct, "all attributes criteria requires at least one attribute name")
	}
	names := make([]string, 0, len(p.Children))
	for _, child := range p.Children {
		if child.ClassType != ber.ClassUniversal || child.Tag != ber.TagOctetString {
			return nil, decodeErrorf(changeSelectionConstruct, "unexpected element with tag %d in attribute name list", child.Tag)
		}
		name := berutil.ParseString(child)
		if ue := checkNonEmptyString("attributeNames", name); ue != nil {
			return nil, wrapDecodeError(changeSelectionConstruct, ue, "invalid attribute name")
		}
		names = append(names, name)
	}
	return &AllAttributesChangeSelectionCriteria{attributeNames: names}, nil
}

func decodeIgnoreAttributesCriteria(p *ber.Packet) (*IgnoreAttributesChangeSelectionCriteria, error) {
	if len(p.Children) != 2 {
		return nil, decodeErrorf(changeSelectionConstruct, "ignore attributes criteria requires exactly two elements, got %d", len(p.Children))
	}
	if p.Children[0].Tag != ignoreAttributesTagOperational {
		return nil, decodeErrorf(changeSelectionConstruct, "unexpected tag %d for ignore operational attributes flag", p.Children[0].Tag)
	}
	ignoreOperational, err := berutil.ParseBoolean(p.Children[0])
	if err != nil {
		return nil, wrapDecodeError(changeSelectionConstruct, err, "malformed ignore operational attributes flag")
	}
	namesElement := p.Children[1]
	if namesElement.Tag != ignoreAttributesTagNames {
		return nil, decodeErrorf(changeSelectionConstruct, "unexpected tag %d for ignored attribute names", namesElement.Tag)
	}
	if err := berutil.RequireConstructed(namesElement); err != nil {
		return nil, wrapDecodeError(changeSelectionConstruct, err, "malformed ignored attribute names")
	}
	names := make([]string, 0, len(namesElement.Children))
	for _, child := range namesElement.Children {
		if child.ClassType != ber.ClassUniversal || child.Tag != ber.TagOctetString {
			return nil, decodeErrorf(changeSelectionConstruct, "unexpected element with tag %d in attribute name list", child.Tag)
		}
		name := berutil.ParseString(child)
		if ue := checkNonEmptyString("attributeNames", name); ue != nil {
			return nil, wrapDecodeError(changeSelectionConstruct, ue, "invalid attribute name")
		}
		names = append(names, name)
	}
	return &IgnoreAttributesChangeSelectionCriteria{
		ignoreOperationalAttributes: ignoreOperational,
		attributeNames:              names,
	}, nil
}
