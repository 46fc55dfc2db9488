// Package zai is a client for the Z.AI chat completion service.
//
// Every call resolves a bearer token (configured, or a guest token fetched on
// demand), signs the request with the time windowed signature the service
// expects and returns the event stream, either as is or folded into a single
// Result.
//
//	ctx := context.Background()
//	c, err := zai.New()
//	if err != nil {
//	    // handle error
//	}
//	res, err := c.Complete(ctx, zai.ChatRequest{
//	    Model:    "GLM-4.6",
//	    Messages: []zai.Message{{Role: "user", Content: "hello"}},
//	})
//
// Streaming callers own the returned Lines and must either exhaust it, range
// over Lines.All, or Close it:
//
//	lines, err := c.Stream(ctx, req)
//	if err != nil {
//	    // handle error
//	}
//	for line := range lines.All() {
//	    fmt.Print(zai.ContentFromChunk(line))
//	}
//
// A Client holds read only configuration and may be shared between
// goroutines.
package zai
