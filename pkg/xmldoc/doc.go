// Package xmldoc implements the document codec contract shared by every
// Recurly entity.
//
// # Reading
//
// Entities decode themselves from a Reader positioned just after their own
// start tag. Known child elements are mapped through a declarative Fields
// table; unknown elements are skipped so that new server-side fields never
// break older clients. Leaf values that fail to parse (dates, numbers,
// booleans) leave the target at its zero value instead of failing the whole
// document:
//
//	var accountFields = xmldoc.Fields[Account]{
//	  "account_code": xmldoc.String(func(a *Account) *string { return &a.Code }),
//	  "created_at":   xmldoc.Time(func(a *Account) *time.Time { return &a.CreatedAt }),
//	}
//
//	func (a *Account) DecodeXML(r *xmldoc.Reader, start xml.StartElement) error {
//	  return xmldoc.Decode(r, a, accountFields)
//	}
//
// Only structural problems (invalid XML, a missing or unexpected root
// element) are reported, wrapped in ErrMalformed.
//
// # Writing
//
// Writer emits one element per non-empty field. Setting a field to its zero
// value is indistinguishable from leaving it unset, which keeps outbound
// payloads minimal.
package xmldoc
