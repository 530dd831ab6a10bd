// Package assembler flattens structured form state into the multipart
// encoding the backend expects: bracket-indexed field names for nested
// collections, repeated []-suffixed fields for lists, and a _method override
// for updates tunneled through POST.
package assembler

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"strconv"

	"partner-console/internal/common/api"
	"partner-console/internal/models"
)

// Form accumulates multipart fields. Errors are sticky: the first write
// failure is kept and returned by Close, so call sites stay linear.
type Form struct {
	buf bytes.Buffer
	w   *multipart.Writer
	err error
}

func NewForm() *Form {
	f := &Form{}
	f.w = multipart.NewWriter(&f.buf)
	return f
}

// Field writes a plain text field.
func (f *Form) Field(name, value string) *Form {
	if f.err == nil {
		f.err = f.w.WriteField(name, value)
	}
	return f
}

// Int writes an integer field as its decimal string.
func (f *Form) Int(name string, v int64) *Form {
	return f.Field(name, strconv.FormatInt(v, 10))
}

// Indexed writes group[index][key], the encoding for nested records.
func (f *Form) Indexed(group string, index int, key, value string) *Form {
	return f.Field(fmt.Sprintf("%s[%d][%s]", group, index, key), value)
}

// Repeated writes one name[] entry; call it once per list element.
func (f *Form) Repeated(name, value string) *Form {
	return f.Field(name+"[]", value)
}

// File writes a file part with the given field name.
func (f *Form) File(name string, file models.PendingFile) *Form {
	if f.err != nil {
		return f
	}
	part, err := f.w.CreateFormFile(name, file.Name)
	if err != nil {
		f.err = err
		return f
	}
	_, f.err = part.Write(file.Data)
	return f
}

// MethodPut marks the submission as an update. The backend does not accept
// PUT bodies in multipart form, so updates go over POST with an override
// field.
func (f *Form) MethodPut() *Form {
	return f.Field(api.MethodOverrideField, api.MethodOverridePut)
}

// Close finalizes the encoding and returns the body and content type for
// api.Client.PostMultipart.
func (f *Form) Close() (*bytes.Buffer, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	if err := f.w.Close(); err != nil {
		return nil, "", err
	}
	return &f.buf, f.w.FormDataContentType(), nil
}
