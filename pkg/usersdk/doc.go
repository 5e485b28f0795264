/*
Package usersdk is the Go client for the userdir service and the home of the
wire types its HTTP handlers encode.

# Clients and sessions

SDKClient covers the operations that need no token: account creation, health
probes and the Basic-credential login. Login returns a Session that attaches
the bearer token to every call:

	client := usersdk.NewSDKClient("http://localhost:8080")

	_, err := client.CreateUser(ctx, usersdk.CreateUserRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct horse",
	})

	session, tok, err := client.Login(ctx, "alice", "correct horse")
	fmt.Println("token valid until", tok.ExpiresAt)

	page, err := session.ListUsers(ctx, 1, 50)
	for _, u := range page.Items {
		fmt.Println(u.ID, u.Username)
	}

Logging in again while the token has more than a minute left returns the
same token, so concurrent logins from one account do not invalidate each
other.

# Errors

Failed calls return either *ValidationError, whose Fields name every
rejected input, or *APIError. The predefined APIError values compare with
errors.Is:

	_, err := session.GetUser(ctx, id)
	if errors.Is(err, usersdk.ErrNotFound) {
		// ...
	}

	var verr *usersdk.ValidationError
	if errors.As(err, &verr) {
		for field, msg := range verr.Fields {
			fmt.Printf("%s: %s\n", field, msg)
		}
	}
*/
package usersdk
