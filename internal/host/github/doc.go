// Package github implements the GitHub collaborators of the assembler:
// a paginated release asset source, an authenticated text fetcher for
// signature files and a release asset publisher for the final manifest.
//
// API calls go through go-github with an oauth2 token transport. Signature
// downloads use a separate client that sets the token per request so it is
// dropped when GitHub redirects to its storage host.
package github
