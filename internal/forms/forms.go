// Package forms binds and validates the HTML forms the blog accepts.
package forms

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/mail"
	"net/url"
	"strings"
)

const (
	maxMultipartMemory = 16 << 20
	maxImageBytes      = 8 << 20

	// MaxPasswordBytes is the longest password bcrypt accepts.
	MaxPasswordBytes = 72

	MsgRequired = "This field is required."

	msgEmail           = "Invalid email address."
	msgURL             = "Invalid URL."
	msgPasswordTooLong = "Password must be at most 72 bytes long."
)

// Errors maps a field name to its validation message.
type Errors map[string]string

func (e Errors) add(field, message string) {
	if _, exists := e[field]; !exists {
		e[field] = message
	}
}

func (e Errors) required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		e.add(field, MsgRequired)
		return false
	}
	return true
}

func (e Errors) email(field, value string) {
	if !e.required(field, value) {
		return
	}
	if !isEmail(value) {
		e.add(field, msgEmail)
	}
}

func (e Errors) url(field, value string) {
	if !e.required(field, value) {
		return
	}
	if !isHTTPURL(value) {
		e.add(field, msgURL)
	}
}

func (e Errors) maxBytes(field, value string, limit int, message string) {
	if len(value) > limit {
		e.add(field, message)
	}
}

func isEmail(value string) bool {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return false
	}
	at := strings.LastIndex(value, "@")
	if at < 1 {
		return false
	}
	domain := value[at+1:]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}

func isHTTPURL(value string) bool {
	u, err := url.ParseRequestURI(value)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Upload is a file attached to a multipart form.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

func parse(r *http.Request) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return errors.New("invalid multipart form")
		}
		return nil
	}
	if err := r.ParseForm(); err != nil {
		return errors.New("invalid form")
	}
	return nil
}

func field(r *http.Request, name string) string {
	return strings.TrimSpace(r.PostFormValue(name))
}

func parseUpload(form *multipart.Form, name string) (*Upload, error) {
	if form == nil {
		return nil, nil
	}

	files := form.File[name]
	if len(files) == 0 {
		return nil, nil
	}
	if len(files) > 1 {
		return nil, errors.New("only one file is allowed")
	}

	fileHeader := files[0]
	if fileHeader.Size == 0 && fileHeader.Filename == "" {
		return nil, nil
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, errors.New("failed to read uploaded file")
	}
	data, err := readFileLimited(file, maxImageBytes)
	_ = file.Close()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	return &Upload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func readFileLimited(reader io.Reader, limit int64) ([]byte, error) {
	limited := io.LimitReader(reader, limit+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, errors.New("failed to read upload")
	}
	if int64(len(data)) > limit {
		return nil, errors.New("uploaded file too large")
	}
	return data, nil
}
