// Package value defines the typed intermediate form that structured input is
// decoded into before a schema constructor sees it.
//
// A Value is one of null, bool, number, string, object or array. Object keys
// that are missing mean "absent"; a key bound to Null() means "explicitly
// null". Numbers keep their literal text.
//
//	v, err := value.ParseJSON(data)
//	obj, ok := v.AsObject()
//	horizon, ok := obj["horizon"].Int64()
package value
