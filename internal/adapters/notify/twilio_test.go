// internal/adapters/notify/twilio_test.go
package notify_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elikagan/objectlesson-api/internal/adapters/notify"
	"github.com/elikagan/objectlesson-api/test/helpers"
)

func TestTwilioSender_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("posts the message form with basic auth", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", r.URL.Path)

			user, pass, ok := r.BasicAuth()
			require.True(t, ok)
			assert.Equal(t, "AC123", user)
			assert.Equal(t, "auth-token", pass)

			require.NoError(t, r.ParseForm())
			assert.Equal(t, "+15550001111", r.PostForm.Get("To"))
			assert.Equal(t, "+15552223333", r.PostForm.Get("From"))
			assert.Contains(t, r.PostForm.Get("Body"), "Sale:")

			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"sid":"SM123"}`))
		}))
		defer server.Close()

		sender := notify.NewTwilioSender(notify.Config{
			AccountSID: "AC123",
			AuthToken:  "auth-token",
			FromNumber: "+15552223333",
			ToNumber:   "+15550001111",
			BaseURL:    server.URL,
		}, helpers.TestLogger())

		assert.NoError(t, sender.Send(ctx, "Sale: Paper Lantern (A000001)"))
	})

	t.Run("non-2xx response is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Authenticate"}`))
		}))
		defer server.Close()

		sender := notify.NewTwilioSender(notify.Config{
			AccountSID: "AC123",
			BaseURL:    server.URL,
		}, helpers.TestLogger())

		err := sender.Send(ctx, "Sale alert")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "401")
	})
}
