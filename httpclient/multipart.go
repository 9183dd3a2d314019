package httpclient

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/textproto"
	"sort"
	"strings"
)

// MultipartBody is a multipart/form-data request body. The Content-Type
// header, boundary included, is always taken from the encoder.
type MultipartBody struct {
	// Fields are simple key-value form fields.
	Fields map[string]string
	// Files are file upload fields.
	Files []FileField
}

// FileField is a file to upload in a multipart request.
type FileField struct {
	// FieldName is the form field name (e.g., "avatar", "document").
	FieldName string
	// FileName is the file name sent to the server.
	FileName string
	// ContentType is the MIME type. Empty means application/octet-stream.
	ContentType string
	// Data is the file content. Used if Reader is nil.
	Data []byte
	// Reader is an alternative to Data. It is drained into Data on the
	// first encode, so every attempt of a retried call sends the same bytes.
	Reader io.Reader
}

// NewMultipartFile builds a body with a single file field plus form fields.
func NewMultipartFile(fieldName, fileName, contentType string, r io.Reader, fields map[string]string) *MultipartBody {
	return &MultipartBody{
		Fields: fields,
		Files: []FileField{{
			FieldName:   fieldName,
			FileName:    fileName,
			ContentType: contentType,
			Reader:      r,
		}},
	}
}

// encode builds the multipart body and returns the reader and content-type
// header. It may be called once per attempt.
func (m *MultipartBody) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if m == nil {
		if err := w.Close(); err != nil {
			return nil, "", err
		}
		return &buf, w.FormDataContentType(), nil
	}

	keys := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, m.Fields[k]); err != nil {
			return nil, "", err
		}
	}

	for i := range m.Files {
		f := &m.Files[i]
		if f.Reader != nil {
			data, err := io.ReadAll(f.Reader)
			if err != nil {
				return nil, "", err
			}
			f.Data, f.Reader = data, nil
		}

		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			`form-data; name="`+escapeQuotes(f.FieldName)+`"; filename="`+escapeQuotes(f.FileName)+`"`)
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		header.Set("Content-Type", ct)

		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
