package consent

import (
	"fmt"
	"mime"
	"net/http"
	"strings"
)

const maxFormMemory = 1 << 20

// Form fields that carry request plumbing rather than a category choice.
const (
	FieldRedirect = "redirect_to"
	FieldCSRF     = "csrf_token"
	FieldMethod   = "_method"
)

var reservedFields = map[string]bool{
	FieldRedirect: true,
	FieldCSRF:     true,
	FieldMethod:   true,
}

// ReadSelections returns the selected value of every category group posted
// in the preferences form. Only posted body fields are read; reserved
// plumbing fields are skipped and the first value of a group wins.
// Manager.SaveSelections later drops names that are not manifest categories.
func ReadSelections(r *http.Request) (map[string]string, error) {
	contentType := r.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}

	var values map[string][]string
	switch {
	case mediaType == "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidForm, err)
		}
		values = r.PostForm

	case strings.HasPrefix(mediaType, "multipart/form-data"):
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidForm, err)
		}
		if r.MultipartForm != nil {
			values = r.MultipartForm.Value
		}

	default:
		return nil, fmt.Errorf("%w: unsupported content type %q", ErrInvalidForm, mediaType)
	}

	selections := make(map[string]string, len(values))
	for name, vs := range values {
		if reservedFields[name] || name == "" || len(vs) == 0 {
			continue
		}
		selections[name] = vs[0]
	}
	return selections, nil
}
