package notify

import "context"

// Variant selects the toast style.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Toast is a transient user-facing message.
type Toast struct {
	Title       string
	Description string
	Variant     Variant
}

// Toaster shows toasts to the operator.
type Toaster interface {
	Toast(t Toast)
}

// ToasterFunc adapts a function to Toaster.
type ToasterFunc func(t Toast)

func (f ToasterFunc) Toast(t Toast) { f(t) }

// Success builds a default toast.
func Success(title, description string) Toast {
	return Toast{Title: title, Description: description, Variant: VariantDefault}
}

// Failure builds a destructive toast.
func Failure(title, description string) Toast {
	return Toast{Title: title, Description: description, Variant: VariantDestructive}
}

// Recorder keeps toasts in memory.
type Recorder struct {
	Toasts []Toast
}

func (r *Recorder) Toast(t Toast) {
	r.Toasts = append(r.Toasts, t)
}

// Last returns the most recent toast.
func (r *Recorder) Last() (Toast, bool) {
	if r == nil || len(r.Toasts) == 0 {
		return Toast{}, false
	}
	return r.Toasts[len(r.Toasts)-1], true
}

// DocumentReadyNotifier delivers document-ready notifications.
type DocumentReadyNotifier interface {
	Send(ctx context.Context, evt DocumentReadyEvent) error
}

// DocumentReadyEvent describes a saved document.
type DocumentReadyEvent struct {
	Recipients []string
	Channels   []string
	Locale     string
	ActorID    string
	FileName   string
	Format     string
	URL        string
	Message    string
}
