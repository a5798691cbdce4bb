/*
Package uaasdk is a Go client for the UAA service.

SDKClient covers the unauthenticated endpoints: the token endpoint, the JWKS
document, health probes and the self service account flows. A Session wraps
an access token and refreshes it when it is about to expire.

	client := uaasdk.NewSDKClient("https://uaa.example.com")

	session, err := client.AuthenticateWithPassword(ctx, "web_app", webSecret, "alice", "secret", nil)
	if err != nil {
		return err
	}

	account, err := session.GetAccount(ctx)

Administrators authenticate with a client holding ROLE_ADMIN and manage
external clients through the session:

	admin, err := client.AuthenticateWithClientCredentials(ctx, "internal", secret, nil)
	summary, err := admin.CreateClient(ctx, uaasdk.ClientRequest{
		ClientID:             "partner",
		ClientSecret:         "s3cr3t",
		TokenValiditySeconds: 3600,
	})

Non 2xx responses are returned as *OAuth2Error:

	var oerr *uaasdk.OAuth2Error
	if errors.As(err, &oerr) && oerr.StatusCode == http.StatusNotFound {
		// unknown or protected client
	}

Sessions are safe for concurrent use.
*/
package uaasdk
