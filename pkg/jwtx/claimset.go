package jwtx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ClaimSet is an insertion ordered claim map. It is what the token service
// builds before signing: the first Set of a key appends it, later Sets
// replace the value in place without moving it. The serialized payload keeps
// that order.
//
// ClaimSet implements jwt.Claims so it can be handed directly to a Signer.
type ClaimSet struct {
	keys   []string
	values map[string]any
}

// NewClaimSet returns an empty ClaimSet.
func NewClaimSet() *ClaimSet {
	return &ClaimSet{values: make(map[string]any)}
}

// Set writes key. See the type doc for ordering rules.
func (c *ClaimSet) Set(key string, value any) {
	if c.values == nil {
		c.values = make(map[string]any)
	}
	if _, ok := c.values[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.values[key] = value
}

// Get returns the value stored under key.
func (c *ClaimSet) Get(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Delete removes key, keeping the order of the remaining claims.
func (c *ClaimSet) Delete(key string) {
	if _, ok := c.values[key]; !ok {
		return
	}
	delete(c.values, key)
	for i, k := range c.keys {
		if k == key {
			c.keys = append(c.keys[:i], c.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the claim names in insertion order.
func (c *ClaimSet) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

func (c *ClaimSet) Len() int { return len(c.keys) }

// MarshalJSON writes the claims as a JSON object in insertion order.
func (c *ClaimSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(c.values[k])
		if err != nil {
			return nil, fmt.Errorf("jwtx: marshal claim %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (c *ClaimSet) GetExpirationTime() (*jwt.NumericDate, error) { return c.numericDate("exp") }
func (c *ClaimSet) GetIssuedAt() (*jwt.NumericDate, error)       { return c.numericDate("iat") }
func (c *ClaimSet) GetNotBefore() (*jwt.NumericDate, error)      { return c.numericDate("nbf") }
func (c *ClaimSet) GetIssuer() (string, error)                   { return c.str("iss") }
func (c *ClaimSet) GetSubject() (string, error)                  { return c.str("sub") }

func (c *ClaimSet) GetAudience() (jwt.ClaimStrings, error) {
	switch v := c.values["aud"].(type) {
	case nil:
		return nil, nil
	case string:
		return jwt.ClaimStrings{v}, nil
	case []string:
		return jwt.ClaimStrings(v), nil
	case jwt.ClaimStrings:
		return v, nil
	default:
		return nil, fmt.Errorf("%w: aud has type %T", jwt.ErrInvalidType, v)
	}
}

func (c *ClaimSet) str(key string) (string, error) {
	switch v := c.values[key].(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %s has type %T", jwt.ErrInvalidType, key, v)
	}
}

func (c *ClaimSet) numericDate(key string) (*jwt.NumericDate, error) {
	switch v := c.values[key].(type) {
	case nil:
		return nil, nil
	case int64:
		return jwt.NewNumericDate(time.Unix(v, 0)), nil
	case int:
		return jwt.NewNumericDate(time.Unix(int64(v), 0)), nil
	case time.Time:
		return jwt.NewNumericDate(v), nil
	case *jwt.NumericDate:
		return v, nil
	default:
		return nil, fmt.Errorf("%w: %s has type %T", jwt.ErrInvalidType, key, v)
	}
}
