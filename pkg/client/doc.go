/*
Package client is a typed HTTP client for the bot platform backend.

Every resource method returns two things: a result.Result carrying either the decoded
payload or the backend's error text (any non-2xx status), and a Go error for failures that
happen before a status is known (transport, cancelled context) or for a 2xx body that is
not valid JSON (*DecodeError).

	c := client.New("http://localhost:8088/api", client.WithTimeout(10*time.Second))
	res, err := c.ListSecrets(ctx)
	if err != nil {
		return err // transport failure
	}
	if msg := res.Error(); msg != nil {
		fmt.Println("backend said:", *msg)
	}

Path segments and query values are percent-encoded. There are no retries and no caching.
WithRequestCoalescing collapses concurrent identical GET requests into one round trip;
mutations are always sent as issued.
*/
package client
