package server

import (
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
)

// compressibleTypes are the Content-Type prefixes worth compressing
var compressibleTypes = []string{
	"text/",
	"application/json",
	"application/javascript",
	"image/svg+xml",
}

// compressionMiddleware brotli-encodes text responses for clients that accept br
func (s *Server) compressionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept-Encoding")

		if r.Method == http.MethodHead || !acceptsBrotli(r.Header.Get("Accept-Encoding")) {
			next.ServeHTTP(w, r)
			return
		}

		bw := &brotliResponseWriter{ResponseWriter: w}
		defer bw.Close()

		next.ServeHTTP(bw, r)
	})
}

func acceptsBrotli(header string) bool {
	for _, part := range strings.Split(header, ",") {
		coding, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if !strings.EqualFold(strings.TrimSpace(coding), "br") {
			continue
		}
		return strings.ReplaceAll(strings.TrimSpace(params), " ", "") != "q=0"
	}
	return false
}

// brotliResponseWriter decides on the first write whether to compress
type brotliResponseWriter struct {
	http.ResponseWriter
	writer  *brotli.Writer
	decided bool
}

func (bw *brotliResponseWriter) decide(status int) {
	if bw.decided {
		return
	}
	bw.decided = true

	h := bw.Header()
	if status < 200 || status == http.StatusNoContent || status == http.StatusNotModified ||
		status == http.StatusPartialContent ||
		h.Get("Content-Encoding") != "" || !isCompressible(h.Get("Content-Type")) {
		return
	}

	h.Set("Content-Encoding", "br")
	h.Del("Content-Length")
	bw.writer = brotli.NewWriterLevel(bw.ResponseWriter, brotli.DefaultCompression)
}

func (bw *brotliResponseWriter) WriteHeader(status int) {
	bw.decide(status)
	bw.ResponseWriter.WriteHeader(status)
}

func (bw *brotliResponseWriter) Write(b []byte) (int, error) {
	if !bw.decided {
		if bw.Header().Get("Content-Type") == "" {
			bw.Header().Set("Content-Type", http.DetectContentType(b))
		}
		bw.WriteHeader(http.StatusOK)
	}
	if bw.writer != nil {
		return bw.writer.Write(b)
	}
	return bw.ResponseWriter.Write(b)
}

// Flush pushes buffered compressed bytes to the client
func (bw *brotliResponseWriter) Flush() {
	if bw.writer != nil {
		bw.writer.Flush()
	}
	if f, ok := bw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (bw *brotliResponseWriter) Close() error {
	if bw.writer == nil {
		return nil
	}
	return bw.writer.Close()
}

func (bw *brotliResponseWriter) Unwrap() http.ResponseWriter {
	return bw.ResponseWriter
}

func isCompressible(contentType string) bool {
	contentType = strings.ToLower(contentType)
	for _, prefix := range compressibleTypes {
		if strings.HasPrefix(contentType, prefix) {
			return true
		}
	}
	return false
}
