// Package errors provides the structured error type used across rpg-lore.
//
// Errors carry a Code, a user-facing Message, an optional Cause and free-form
// metadata:
//
//	err := errors.NotFoundf("spell %q not found", name).
//	    WithMeta("source", source)
//
// Wrapping keeps the code of a wrapped *Error:
//
//	if err := store.Find(ctx, category, name, source); err != nil {
//	    return errors.Wrap(err, "catalog lookup failed")
//	}
//
// Inspection helpers work through wrap chains:
//
//	if errors.IsNotFound(err) { ... }
//	msg := errors.GetMessage(err)
//
// Config validation uses the ValidationBuilder:
//
//	vb := errors.NewValidationBuilder()
//	if cfg.Resolver == nil {
//	    vb.RequiredField("Resolver")
//	}
//	return vb.Build()
//
// HTTP handlers map codes to status codes with Code.HTTPStatus. The reference
// subsystem (resolver, entity views, tooltips) never lets these errors reach
// the UI; they are converted to structured results at its boundary.
package errors
