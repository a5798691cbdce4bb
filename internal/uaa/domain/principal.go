package domain

// Principal is whoever a token is issued to.
type Principal interface {
	PrincipalName() string
}

// IdentifiedPrincipal is a principal with a stable identifier, in practice
// a User.
type IdentifiedPrincipal interface {
	Principal
	PrincipalID() string
}

// ClientPrincipal is the principal of a client_credentials grant. It has a
// name but no identifier.
type ClientPrincipal struct {
	ClientID string
}

func (c ClientPrincipal) PrincipalName() string { return c.ClientID }
