package parser

// KnownBakers maps baker addresses to the name shown for delegations.
type KnownBakers map[string]string

// Lookup returns the name of address. A nil table knows no one.
func (bakers KnownBakers) Lookup(address string) (string, bool) {

	name, ok := bakers[address]

	return name, ok

}

// OperationOption configures how an Operation renders its contents.
type OperationOption func(operation *Operation)

// WithKnownBakers names the delegates found in the operation.
func WithKnownBakers(bakers KnownBakers) OperationOption {

	return func(operation *Operation) {
		operation.Ops.bakers = bakers
	}

}
