package fieldsync

// ActionType names the effect an action asks the reducer to apply.
type ActionType string

const (
	ActionChange               ActionType = "fieldsync/CHANGE"
	ActionBlur                 ActionType = "fieldsync/BLUR"
	ActionFocus                ActionType = "fieldsync/FOCUS"
	ActionRegisterField        ActionType = "fieldsync/REGISTER_FIELD"
	ActionUnregisterField      ActionType = "fieldsync/UNREGISTER_FIELD"
	ActionStartAsyncValidation ActionType = "fieldsync/START_ASYNC_VALIDATION"
	ActionStopAsyncValidation  ActionType = "fieldsync/STOP_ASYNC_VALIDATION"
)

// Action is the opaque message handed to Store.Dispatch. Its semantics
// belong to the reducer.
type Action struct {
	Type    ActionType
	Form    string
	Field   string
	Payload any
	// Failed marks a StopAsyncValidation that carries a rejection, so a nil
	// Payload can still mean "rejected without errors".
	Failed bool
}

// Store is the external state container.
type Store interface {
	Dispatch(a Action)
	GetState() any
}

// Change asks the reducer to store value at field.
func Change(form, field string, value any) Action {
	return Action{Type: ActionChange, Form: form, Field: field, Payload: value}
}

// Blur asks the reducer to store value at field and mark it touched.
func Blur(form, field string, value any) Action {
	return Action{Type: ActionBlur, Form: form, Field: field, Payload: value}
}

// Focus marks field active.
func Focus(form, field string) Action {
	return Action{Type: ActionFocus, Form: form, Field: field}
}

// Register announces a newly mounted path.
func Register(form, field string, kind string) Action {
	return Action{Type: ActionRegisterField, Form: form, Field: field, Payload: kind}
}

// Unregister lets the reducer drop bookkeeping for a path that is no longer
// mounted anywhere.
func Unregister(form, field string) Action {
	return Action{Type: ActionUnregisterField, Form: form, Field: field}
}

// StartAsyncValidation marks field as the one being validated.
func StartAsyncValidation(form, field string) Action {
	return Action{Type: ActionStartAsyncValidation, Form: form, Field: field}
}

// StopAsyncValidation ends the in-flight validation. failed distinguishes a
// rejection from a fulfilment when errs is nil.
func StopAsyncValidation(form string, errs any, failed bool) Action {
	return Action{Type: ActionStopAsyncValidation, Form: form, Payload: errs, Failed: failed}
}
