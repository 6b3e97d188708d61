// Package acl provides the Anti-Corruption Layer between the quotes HTTP API
// and the domain model.
//
// # What is an Anti-Corruption Layer?
//
// The Anti-Corruption Layer (ACL) is a pattern from Domain-Driven Design that
// keeps external representations out of the domain. Here it ensures that:
//
//   - Wire DTOs (nullable author, numeric ids) never leak past [QuoteClient]
//   - Every failed call surfaces as a [domain.NetworkError]
//   - Quotes are validated before domain objects are created
//
// # Package Components
//
//   - [QuoteClient]: implements ports.QuoteAPI and ports.HealthChecker
//   - [BaseAdapter]: embeddable request helpers that map failures
//   - [ErrorResponse]: the API's {"detail": ...} error body
//   - [MapHTTPError]: response or transport failure to [domain.NetworkError]
//   - [DecodeResponse]: generic JSON response decoder
//   - [TranslateSlice]: batch translation helper
//
// # Adding an Endpoint
//
//	func (c *QuoteClient) Tags(ctx context.Context) ([]string, error) {
//	    body, err := c.Get(ctx, "/tags", "fetch tags")
//	    if err != nil {
//	        return nil, err // already a *domain.NetworkError
//	    }
//
//	    tags, err := acl.DecodeResponse[[]string](body)
//	    if err != nil {
//	        return nil, fmt.Errorf("fetch tags: %w", err)
//	    }
//
//	    return *tags, nil
//	}
//
// # Error Handling Strategy
//
// The API reports failures as a non-2xx status with a JSON detail that is
// either a string or a list of field errors. The ACL maps:
//
//   - Any non-2xx status → [domain.NetworkError] with StatusCode and Detail
//   - 404 → additionally matches [domain.ErrNotFound]
//   - No response (refused, timeout, [clients.ErrCircuitOpen]) → [domain.NetworkError] with Err
//
// DELETE is the exception: a response of any status is reported as a bool,
// and only a missing response is an error.
package acl
