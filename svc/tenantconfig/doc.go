// Package tenantconfig resolves the configuration blob handed to a request
// for a (tenant user, client) pair.
//
// Configuration is kept in four tiers: users (keyed by encoded tenant user),
// libraries (keyed by library id), clients (keyed by client id) and a
// process-wide default. Resolution picks exactly one tier, the most specific
// one that exists, and then runs a fixed pipeline of enrichment passes over a
// deep copy of it:
//
//  1. agency: the library's search profile replaces search.profile, and its
//     paired service credentials are written to agencyservice.
//  2. client: the client's own config is deep-merged underneath (the tier
//     wins), except that a client declaring both search.agency and
//     search.profile overrides those two fields.
//  3. search.agency is forced to the library id unless the client overrode it.
//  4. search.profile must be present.
//
// ErrMissingProfile, ErrMissingCollectionIdentifiers and ErrAsymmetricOverride
// describe configuration mistakes. They are terminal: retrying cannot help.
package tenantconfig
