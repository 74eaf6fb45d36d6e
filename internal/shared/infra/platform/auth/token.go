package auth

import (
	"encoding/base64"
	"net/http"
	"strings"
)

// ExtractBearerToken lee el token de "Authorization: Bearer <token>".
func ExtractBearerToken(r *http.Request) string {
	if r == nil {
		return ""
	}
	return extractScheme(r.Header.Get("Authorization"), "bearer")
}

// ExtractToken prueba primero la cabecera y después el parámetro de query
// (los navegadores no envían cabeceras en el handshake WebSocket).
func ExtractToken(r *http.Request, queryParam string) string {
	if token := ExtractBearerToken(r); token != "" {
		return token
	}
	if r == nil || r.URL == nil {
		return ""
	}
	if queryParam == "" {
		queryParam = "token"
	}
	return strings.TrimSpace(r.URL.Query().Get(queryParam))
}

// ExtractBasicCredentials decodifica "Authorization: Basic base64(email:password)".
func ExtractBasicCredentials(r *http.Request) (email, password string, err error) {
	raw := extractScheme(r.Header.Get("Authorization"), "basic")
	if raw == "" {
		return "", "", ErrInvalidBasicAuth
	}
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", "", ErrInvalidBasicAuth
	}
	email, password, ok := strings.Cut(string(decoded), ":")
	if !ok || email == "" || password == "" || strings.Contains(password, ":") {
		return "", "", ErrInvalidBasicAuth
	}
	return email, password, nil
}

func extractScheme(header, scheme string) string {
	header = strings.TrimSpace(header)
	prefix := scheme + " "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
