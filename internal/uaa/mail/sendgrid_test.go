package mail

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSendGridProvider_Send(t *testing.T) {
	var got struct {
		From struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"from"`
		Subject          string `json:"subject"`
		Personalizations []struct {
			To []struct {
				Email string `json:"email"`
			} `json:"to"`
		} `json:"personalizations"`
		Content []struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		} `json:"content"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v3/mail/send", r.URL.Path)
		require.Equal(t, "Bearer SG.test", r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	p := NewSendGridProvider("SG.test", srv.URL)
	err := p.Send(context.Background(), Message{
		From:    "UAA <uaa@example.com>",
		To:      "bob@example.com",
		Subject: "hello",
		HTML:    "<p>hi</p>",
	})
	require.NoError(t, err)

	require.Equal(t, "UAA", got.From.Name)
	require.Equal(t, "uaa@example.com", got.From.Email)
	require.Equal(t, "hello", got.Subject)
	require.Len(t, got.Personalizations, 1)
	require.Equal(t, "bob@example.com", got.Personalizations[0].To[0].Email)
	require.Len(t, got.Content, 1)
	require.Equal(t, "text/html", got.Content[0].Type)
	require.Equal(t, "<p>hi</p>", got.Content[0].Value)
}

func TestSendGridProvider_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer srv.Close()

	err := NewSendGridProvider("SG.bad", srv.URL).Send(context.Background(), Message{
		From: "uaa@example.com", To: "bob@example.com", Subject: "s", HTML: "b",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "401")
	require.Contains(t, err.Error(), "bad key")
}
