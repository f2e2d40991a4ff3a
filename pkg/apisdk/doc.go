/*
Package apisdk is a Go client for the soapbox API.

# Client vs Session

Client covers the public endpoints (registration, login, refresh, health)
and starts authenticated sessions:

	client := apisdk.NewClient("http://localhost:3000")

	_, err := client.Register(ctx, apisdk.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret1",
	})

	session, err := client.Authenticate(ctx, "alice", "secret1")

Session sends the access token as a bearer header and exchanges the refresh
token for a new access token shortly before the old one expires:

	post, err := session.CreatePost(ctx, "hello world")
	liked, err := session.ToggleLike(ctx, post.ID)

# Errors

Every non-2xx response is returned as an *APIError carrying the status code
and the server's message:

	var apiErr *apisdk.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden {
		// not the owner
	}

The request types double as the server's validation rules; call Validate
before sending to fail fast.
*/
package apisdk
