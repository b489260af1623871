package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/investdesk/desk/internal/apiclient"
	"github.com/investdesk/desk/internal/form"
	"github.com/investdesk/desk/internal/validate"
)

var errInvalidInput = errors.New("invalid input")

// formBuilder constructs a form with the command's options appended.
type formBuilder func(opts ...form.Option) *form.Form

// submit fills a form with values, sends it once and waits out the success
// delay. Field errors are printed to stderr; a failed send returns the
// message the operator should see.
func (a *app) submit(cmd *cobra.Command, build formBuilder, values validate.Values) error {
	done := make(chan struct{})
	f := build(
		form.WithValues(values),
		form.WithSuccessDelay(a.cfg.UI.SuccessDelay),
		form.OnSuccess(func() { close(done) }),
	)
	defer f.Close()

	if err := submitOnce(cmd, f); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-cmd.Context().Done():
		return cmd.Context().Err()
	}
}

// submitOnce sends f without waiting for any success callback.
func submitOnce(cmd *cobra.Command, f *form.Form) error {
	if err := f.Submit(cmd.Context()); err != nil {
		if errors.Is(err, form.ErrInvalid) {
			printFieldErrors(cmd.ErrOrStderr(), f.Schema(), f.State().Errors)
			return errInvalidInput
		}
		if msg := f.State().SubmitError; msg != "" {
			return errors.New(msg)
		}
		return err
	}
	return nil
}

// precheck validates fields of f without sending it, printing field errors
// the way a failed submit does.
func precheck(cmd *cobra.Command, f *form.Form, fields []string) error {
	for _, field := range fields {
		f.Touch(field)
	}
	if errs := f.State().Errors; !errs.Empty() {
		printFieldErrors(cmd.ErrOrStderr(), f.Schema(), errs)
		return errInvalidInput
	}
	return nil
}

func printFieldErrors(w io.Writer, schema validate.Schema, errs validate.Errors) {
	for _, f := range schema {
		if msg, ok := errs[f.Name]; ok {
			fmt.Fprintf(w, "  %s: %s\n", f.Label, msg)
		}
	}
	for _, name := range errs.Fields() {
		if !schemaHas(schema, name) {
			fmt.Fprintf(w, "  %s: %s\n", name, errs[name])
		}
	}
}

func schemaHas(schema validate.Schema, name string) bool {
	for _, f := range schema {
		if f.Name == name {
			return true
		}
	}
	return false
}

// fieldFlags binds string flags to form fields.
type fieldFlags struct {
	names  map[string]string // flag -> field
	values map[string]*string
}

func newFieldFlags() *fieldFlags {
	return &fieldFlags{names: map[string]string{}, values: map[string]*string{}}
}

func (ff *fieldFlags) add(cmd *cobra.Command, flag, field, usage string) {
	v := new(string)
	cmd.Flags().StringVar(v, flag, "", usage)
	ff.names[flag] = field
	ff.values[flag] = v
}

// collect returns the form values. With onlyChanged, flags the operator did
// not pass are left out.
func (ff *fieldFlags) collect(cmd *cobra.Command, onlyChanged bool) validate.Values {
	out := validate.Values{}
	for flag, field := range ff.names {
		if onlyChanged && !cmd.Flags().Changed(flag) {
			continue
		}
		out[field] = *ff.values[flag]
	}
	return out
}

// changed returns the fields whose flags were passed.
func (ff *fieldFlags) changed(cmd *cobra.Command) []string {
	var fields []string
	for flag, field := range ff.names {
		if cmd.Flags().Changed(flag) {
			fields = append(fields, field)
		}
	}
	return fields
}

// userError turns an API failure into the message shown to the operator.
func userError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		return errors.New(apiclient.Message(err, form.FallbackMessage))
	}
	return err
}
