package marketplace

import (
	"io"

	"github.com/kbukum/tripcart/httpclient"
)

// Upload is a file sent as multipart/form-data.
type Upload struct {
	// Field is the form field name. Each endpoint sets its own default.
	Field       string
	FileName    string
	ContentType string
	Content     io.Reader
	// Fields are extra form values sent with the file.
	Fields map[string]string
}

func (u Upload) withDefaults(field string, fields map[string]string) Upload {
	if u.Field == "" {
		u.Field = field
	}
	merged := make(map[string]string, len(u.Fields)+len(fields))
	for k, v := range u.Fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	u.Fields = merged
	return u
}

func (u Upload) body() *httpclient.MultipartBody {
	return httpclient.NewMultipartFile(u.Field, u.FileName, u.ContentType, u.Content, u.Fields)
}
