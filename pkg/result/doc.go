/*
Package result provides a success/failure wrapper used at the boundary between the
API client and its callers.

A Result replaces error returns for expected failure modes such as non-2xx HTTP
responses or backend validation failures. Callers must check IsOk before reading the
payload; Unwrap panics on a failure and is meant for programmer-error paths only.

	res, err := c.ListSecrets(ctx)
	if err != nil {
		return err // transport failure
	}
	if msg := res.Error(); msg != nil {
		fmt.Println("backend said:", *msg)
	}
*/
package result
