// Package ldapext provides codec support for Ping Identity Directory
// Server extensions to the LDAP protocol, built on top of go-ldap/ldap
// and go-asn1-ber.
//
// The package covers three areas:
//   - Request controls and extended operations specific to the Directory
//     Server, including transaction settings, password update behavior,
//     access token generation, collect support data, password
//     verification, and interactive transactions
//   - A JSON representation of controls for configuration files and
//     log output
//   - A parser for the server's audit log format
//
// # Controls
//
// Each control comes in two pieces: a mutable properties type used to
// assemble the control, and an immutable control type produced from it.
// Setters on the properties types validate eagerly and return a
// *UsageError for values that could never encode legally:
//
//	name := ldapext.GenerateTransactionName()
//	timeout := int64(5000)
//
//	props := &ldapext.TransactionSettingsRequestControlProperties{}
//	props.SetTransactionName(&name)
//	if err := props.SetBackendLockTimeoutMillis(&timeout); err != nil {
//		log.Fatal(err)
//	}
//
//	ctl := ldapext.NewTransactionSettingsRequestControl(true, props)
//
// The resulting control implements ldap.Control and can be attached to
// any go-ldap request. Decoding the other direction goes through
// DecodeControl, which dispatches on the control OID and reports
// malformed values as *DecodeError with an LDAP result code.
//
// # Extended operations
//
// Extended requests follow the same shape: a properties type feeding an
// immutable request whose ExtendedRequest method yields the generic
// envelope for the wire:
//
//	level := ldapext.SecurityLevelObscureSecrets
//
//	csdProps := &ldapext.CollectSupportDataExtendedRequestProperties{}
//	if err := csdProps.SetSecurityLevel(&level); err != nil {
//		log.Fatal(err)
//	}
//
//	req := ldapext.NewCollectSupportDataExtendedRequest(csdProps)
//	envelope := req.ExtendedRequest()
//
// # Audit log
//
// AuditLogReader consumes the server's audit log, yielding one typed
// message per change record:
//
//	reader := ldapext.NewAuditLogReader(f, &ldapext.AuditLogConfig{Strict: true})
//	for {
//		msg, err := reader.Read()
//		if err == io.EOF {
//			break
//		}
//		if err != nil {
//			log.Fatal(err)
//		}
//		fmt.Printf("%s %s\n", msg.ChangeType(), msg.DN())
//	}
//
// # Errors
//
// The package reports failures through three error families: UsageError
// for values rejected at construction time, DecodeError for malformed
// wire data, and AuditLogParseError for malformed audit log input. All
// three work with errors.As, and the IsUsageError, IsDecodeError, and
// IsAuditLogParseError helpers cover the common checks.
package ldapext
