// Package resilience groups the failure-handling helpers used around model
// backends: circuitbreaker trips on sustained failure, retry backs off on
// transient ones.
//
//	cb := circuitbreaker.New(circuitbreaker.InferenceAPIConfig("huggingface"))
//	err := retry.WithBackoff(ctx, retry.InferenceConfig(), func() error {
//	    _, err := cb.Execute(call)
//	    return err
//	})
package resilience
