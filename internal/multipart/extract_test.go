package multipart

import (
	"bytes"
	"errors"
	"testing"
)

const field = "profileImage"

func buildBody(boundary string, parts ...string) []byte {
	var buf bytes.Buffer
	for _, p := range parts {
		buf.WriteString("--" + boundary + "\r\n")
		buf.WriteString(p)
		buf.WriteString("\r\n")
	}
	buf.WriteString("--" + boundary + "--\r\n")
	return buf.Bytes()
}

func TestExtract_SinglePart(t *testing.T) {
	t.Parallel()

	body := []byte("--BOUNDARY\r\nContent-Disposition: form-data; name=\"profileImage\"\r\n\r\n<bytes>\r\n--BOUNDARY--")

	got, err := Extract(body, "BOUNDARY", field)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if string(got) != "<bytes>" {
		t.Errorf("Extract() = %q, want %q", got, "<bytes>")
	}
}

func TestExtract_BinaryPayload(t *testing.T) {
	t.Parallel()

	// JPEG magic plus bytes that are not valid UTF-8 and an embedded CRLF.
	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x80, 0x81, '\r', '\n', 0xFE, 0xFF, 0xD9}

	var buf bytes.Buffer
	buf.WriteString("--xyz\r\nContent-Disposition: form-data; name=\"profileImage\"; filename=\"a.jpg\"\r\n")
	buf.WriteString("Content-Type: image/jpeg\r\n\r\n")
	buf.Write(payload)
	buf.WriteString("\r\n--xyz--\r\n")

	got, err := Extract(buf.Bytes(), "xyz", field)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("Extract() = %x, want %x", got, payload)
	}
}

func TestExtract_StripsOnlyOneTrailingCRLF(t *testing.T) {
	t.Parallel()

	body := buildBody("b",
		"Content-Disposition: form-data; name=\"profileImage\"\r\n\r\ndata\r\n",
	)

	got, err := Extract(body, "b", field)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if string(got) != "data\r\n" {
		t.Errorf("Extract() = %q, want %q", got, "data\r\n")
	}
}

func TestExtract_SkipsOtherFields(t *testing.T) {
	t.Parallel()

	body := buildBody("----WebKitFormBoundary7MA4YWxk",
		"Content-Disposition: form-data; name=\"caption\"\r\n\r\nhello",
		"Content-Disposition: form-data; name=\"profileImage\"\r\n\r\nimage-bytes",
		"Content-Disposition: form-data; name=\"profileImage\"\r\n\r\nsecond",
	)

	got, err := Extract(body, "----WebKitFormBoundary7MA4YWxk", field)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if string(got) != "image-bytes" {
		t.Errorf("Extract() = %q, want first matching part %q", got, "image-bytes")
	}
}

func TestExtract_NotFound(t *testing.T) {
	t.Parallel()

	withField := buildBody("B", "Content-Disposition: form-data; name=\"profileImage\"\r\n\r\nx")

	tests := []struct {
		name     string
		body     []byte
		boundary string
	}{
		{"empty boundary", withField, ""},
		{"empty body", nil, "B"},
		{"delimiter absent", []byte("plain text body"), "B"},
		{"wrong boundary", withField, "OTHER"},
		{"no matching field", buildBody("B", "Content-Disposition: form-data; name=\"caption\"\r\n\r\nhi"), "B"},
		{"missing disposition", buildBody("B", "X-Field: profileImage\r\n\r\nhi"), "B"},
		{"missing separator", buildBody("B", "Content-Disposition: form-data; name=\"profileImage\"\r\nhi"), "B"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Extract(tt.body, tt.boundary, field)
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("Extract() error = %v, want ErrNotFound", err)
			}
			if got != nil {
				t.Errorf("Extract() = %q, want nil", got)
			}
		})
	}
}

func TestExtract_MarkerInEarlierPayloadMatchesFirst(t *testing.T) {
	t.Parallel()

	// Known limitation: the marker is a plain substring, so an earlier part
	// that mentions it wins.
	body := buildBody("B",
		"Content-Disposition: form-data; name=\"note\"\r\n\r\nsee profileImage below",
		"Content-Disposition: form-data; name=\"profileImage\"\r\n\r\nreal",
	)

	got, err := Extract(body, "B", field)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if string(got) != "see profileImage below" {
		t.Errorf("Extract() = %q", got)
	}
}

func TestExtract_FirstMatchWithoutSeparatorStops(t *testing.T) {
	t.Parallel()

	// The first matching part decides the result, even when a later part
	// would have a payload.
	body := buildBody("B",
		"Content-Disposition: form-data; name=\"profileImage\"",
		"Content-Disposition: form-data; name=\"profileImage\"\r\n\r\nreal",
	)

	got, err := Extract(body, "B", field)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Extract() error = %v, want ErrNotFound", err)
	}
	if got != nil {
		t.Errorf("Extract() = %q, want nil", got)
	}
}

func TestBoundaryFromContentType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		want        string
		wantErr     bool
	}{
		{"simple", "multipart/form-data; boundary=abc123", "abc123", false},
		{"trailing params", "multipart/form-data; boundary=abc123; charset=utf-8", "abc123", false},
		{"dashes", "multipart/form-data; boundary=----WebKitFormBoundaryX", "----WebKitFormBoundaryX", false},
		{"missing", "application/json", "", true},
		{"empty token", "multipart/form-data; boundary=", "", true},
		{"empty header", "", "", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := BoundaryFromContentType(tt.contentType)
			if tt.wantErr {
				if !errors.Is(err, ErrNoBoundary) {
					t.Fatalf("BoundaryFromContentType() error = %v, want ErrNoBoundary", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("BoundaryFromContentType() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("BoundaryFromContentType() = %q, want %q", got, tt.want)
			}
		})
	}
}
