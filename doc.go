// Package fieldsync binds form fields to an external state store.
//
// It provides:
//
// - A pluggable Structure for reading and writing the form-state tree (plain Go maps or go-cty values)
// - A reference-counted field registry whose validator accessors are re-invoked on every use
// - A value pipeline (extract, parse, normalize) for web and native change events
// - An async validation orchestrator built on a settle-once Promise
// - Field and Fields components that project the tree and gate re-renders on deep equality
//
// Design policy:
// - The store owns all writes; components only dispatch Actions and read snapshots.
// - Validation results are data in the tree, configuration mistakes are *ConfigError.
// - Adapters live under structure/, transforms under value/, the CLI under cmd/fieldsync.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	form, err := fieldsync.NewForm(fieldsync.FormOpt{Name: "profile", Store: store})
//	email, err := fieldsync.NewField(form, "email",
//		fieldsync.WithValidate(fieldsync.ValidateAll(required)))
//	err = email.Mount()
//
//	email.HandleChange(ev)
//	if email.Sync() {
//		email.Render()
//	}
package fieldsync
