package link

import "strings"

// OriginPolicy decides whether a fetcher's declared client identity may
// receive content.
type OriginPolicy interface {
	Allow(identity string) bool
}

// OriginPolicyFunc adapts a function to an OriginPolicy.
type OriginPolicyFunc func(identity string) bool

func (f OriginPolicyFunc) Allow(identity string) bool { return f(identity) }

// PrefixPolicy allows identities beginning with prefix, ignoring case. An
// empty prefix allows every identity.
func PrefixPolicy(prefix string) OriginPolicy {
	prefix = strings.ToLower(prefix)
	return OriginPolicyFunc(func(identity string) bool {
		return strings.HasPrefix(strings.ToLower(identity), prefix)
	})
}
