// Package testutil provides shared helpers and sample wire data for the
// ldapext test suites.
package testutil

import (
	"encoding/hex"
	"strings"
	"testing"

	ber "github.com/go-asn1-ber/asn1-ber"
)

// MustDecodeHex converts a hex string into bytes, failing the test on
// malformed input. Spaces are permitted between octets.
func MustDecodeHex(t *testing.T, s string) []byte {
	t.Helper()
	decoded, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		t.Fatalf("invalid hex string %q: %v", s, err)
	}
	return decoded
}

// MustReadPacket parses a single BER packet from raw bytes, failing the
// test when the bytes do not form a complete element.
func MustReadPacket(t *testing.T, raw []byte) *ber.Packet {
	t.Helper()
	packet, err := ber.DecodePacketErr(raw)
	if err != nil {
		t.Fatalf("failed to parse BER packet from % X: %v", raw, err)
	}
	return packet
}

// AuditLogAddMessage is a well-formed audit log add record.
const AuditLogAddMessage = `# 24/Aug/2018:12:11:50.949 -0500; conn=33; op=1
dn: ou=People,dc=example,dc=com
changetype: add
objectClass: top
objectClass: organizationalUnit
ou: People`

// AuditLogDeleteMessage is a well-formed audit log delete record.
const AuditLogDeleteMessage = `# 24/Aug/2018:12:11:51.001 -0500; conn=33; op=2
dn: uid=jdoe,ou=People,dc=example,dc=com
changetype: delete`

// AuditLogModifyMessage is a well-formed audit log modify record.
const AuditLogModifyMessage = `# 24/Aug/2018:12:11:51.096 -0500; conn=34; op=1; productName="Directory Server"
dn: uid=jdoe,ou=People,dc=example,dc=com
changetype: modify
replace: description
description: Updated description
-
add: displayName
displayName: John Doe`

// AuditLogModifyDNMessage is a well-formed audit log modify DN record
// that moves the entry under a new parent.
const AuditLogModifyDNMessage = `# 24/Aug/2018:12:11:52.208 -0500; conn=35; op=1
dn: uid=jdoe,ou=People,dc=example,dc=com
changetype: moddn
newrdn: uid=john.doe
deleteoldrdn: 1
newsuperior: ou=Staff,dc=example,dc=com`

// AuditLogMalformedMessage has a header whose timestamp does not parse.
const AuditLogMalformedMessage = `# not-a-timestamp; conn=36; op=1
dn: uid=jdoe,ou=People,dc=example,dc=com
changetype: delete`
