package e2e

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
)

// 01 - Smoke + flujo completo del token endpoint contra un server vivo.
func Test_01_Smoke(t *testing.T) {
	c := newHTTPClient()

	t.Run("healthz", func(t *testing.T) {
		resp, err := c.Get(baseURL + "/healthz")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != 200 {
			t.Fatalf("GET /healthz status=%d", resp.StatusCode)
		}
	})

	t.Run("readyz", func(t *testing.T) {
		resp, err := c.Get(baseURL + "/readyz")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != 200 {
			t.Fatalf("GET /readyz status=%d", resp.StatusCode)
		}
	})

	t.Run("jwks", func(t *testing.T) {
		resp, err := c.Get(baseURL + "/.well-known/jwks.json")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		var doc struct {
			Keys []map[string]any `json:"keys"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
			t.Fatal(err)
		}
		if len(doc.Keys) == 0 {
			t.Fatal("JWKS sin claves")
		}
		if doc.Keys[0]["alg"] != "EdDSA" {
			t.Fatalf("alg=%v", doc.Keys[0]["alg"])
		}
	})
}

func Test_01_TokenFlow(t *testing.T) {
	c := newHTTPClient()

	postToken := func(form url.Values) (*http.Response, map[string]any) {
		resp, err := c.PostForm(baseURL+"/connect/token", form)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		var body map[string]any
		_ = json.Unmarshal(b, &body)
		return resp, body
	}

	var accessToken string

	t.Run("password grant ok", func(t *testing.T) {
		resp, body := postToken(url.Values{
			"grant_type": {"password"},
			"username":   {seedUsername()},
			"password":   {seedPassword()},
		})
		if resp.StatusCode != 200 {
			t.Fatalf("status=%d body=%v", resp.StatusCode, body)
		}
		if resp.Header.Get("Cache-Control") != "no-store" {
			t.Fatalf("Cache-Control=%q", resp.Header.Get("Cache-Control"))
		}
		accessToken, _ = body["access_token"].(string)
		if accessToken == "" {
			t.Fatal("sin access_token")
		}
		if body["token_type"] != "Bearer" {
			t.Fatalf("token_type=%v", body["token_type"])
		}
		if rt, _ := body["refresh_token"].(string); rt == "" {
			t.Fatal("sin refresh_token (offline_access va en el request default)")
		}
	})

	t.Run("password grant credenciales inválidas", func(t *testing.T) {
		resp, body := postToken(url.Values{
			"grant_type": {"password"},
			"username":   {seedUsername()},
			"password":   {"definitely-wrong"},
		})
		if resp.StatusCode != 400 {
			t.Fatalf("status=%d", resp.StatusCode)
		}
		if body["error"] != "invalid_grant" {
			t.Fatalf("error=%v", body["error"])
		}
	})

	t.Run("grant no soportado", func(t *testing.T) {
		resp, body := postToken(url.Values{"grant_type": {"client_credentials"}})
		if resp.StatusCode != 400 {
			t.Fatalf("status=%d", resp.StatusCode)
		}
		if body["error"] != "unsupported_grant_type" {
			t.Fatalf("error=%v", body["error"])
		}
	})

	t.Run("userinfo con bearer", func(t *testing.T) {
		if accessToken == "" {
			t.Skip("sin access token del subtest anterior")
		}
		req, _ := http.NewRequest("GET", baseURL+"/connect/userinfo", nil)
		req.Header.Set("Authorization", "Bearer "+accessToken)
		resp, err := c.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != 200 {
			t.Fatalf("status=%d", resp.StatusCode)
		}
		var body map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if sub, _ := body["sub"].(string); strings.TrimSpace(sub) == "" {
			t.Fatal("userinfo sin sub")
		}
	})
}
