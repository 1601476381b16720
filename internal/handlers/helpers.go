package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
)

// maxJSONBody caps the body read by the JSON endpoints
const maxJSONBody = 64 << 10

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.Header().Set("Allow", method)
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes the standard {"error": ...} payload.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// WriteErrorDetail writes {"error": ..., "detail": ...}.
func WriteErrorDetail(w http.ResponseWriter, statusCode int, message, detail string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"error":  message,
		"detail": detail,
	})
}

// DecodeJSONLenient decodes the request body into v. A missing, oversized or
// malformed body leaves v at its zero value and is not an error.
func DecodeJSONLenient[T any](w http.ResponseWriter, r *http.Request) *T {
	v := new(T)
	if r.Body == nil {
		return v
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil || len(body) == 0 {
		return v
	}
	if err := json.Unmarshal(body, v); err != nil {
		return new(T)
	}
	return v
}

// TrustedProxies lists the peers whose X-Forwarded-For and X-Real-IP
// headers are believed. A nil *TrustedProxies trusts nobody.
type TrustedProxies struct {
	nets []*net.IPNet
}

// ParseTrustedProxies accepts bare IPs and CIDR ranges
func ParseTrustedProxies(entries []string) (*TrustedProxies, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	t := &TrustedProxies{}
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy %q", entry)
			}
			bits := 128
			if ip.To4() != nil {
				ip = ip.To4()
				bits = 32
			}
			t.nets = append(t.nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, ipNet, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		t.nets = append(t.nets, ipNet)
	}
	return t, nil
}

// Trusts reports whether addr is a configured proxy
func (t *TrustedProxies) Trusts(addr string) bool {
	if t == nil {
		return false
	}
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	for _, n := range t.nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// ClientIP returns the caller address. Forwarding headers are only read when
// the direct peer is a trusted proxy; X-Forwarded-For is walked from the right
// and the first hop that is not itself a trusted proxy wins.
func ClientIP(r *http.Request, proxies *TrustedProxies) string {
	peer := remoteHost(r.RemoteAddr)
	if !proxies.Trusts(peer) {
		return peer
	}

	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		hops := strings.Split(fwd, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if net.ParseIP(hop) == nil {
				break
			}
			if !proxies.Trusts(hop) {
				return hop
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(ip) != nil {
		return ip
	}
	return peer
}

func remoteHost(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

// upstreamDetail drops the service's own wrapping prefix from err
func upstreamDetail(err error) string {
	if inner := errors.Unwrap(err); inner != nil {
		return inner.Error()
	}
	return err.Error()
}
