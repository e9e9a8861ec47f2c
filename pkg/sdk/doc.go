// Package securephotos provides an embedded Go client for searching a SecurePhotos
// Qdrant collection without running the HTTP service.
//
// The client extracts metadata from a natural-language query with a caller-supplied
// chat model, turns it into a payload filter and scrolls the matching photos:
//
//	client, _ := securephotos.New(ctx,
//	    securephotos.WithQdrant("http://localhost:6334", ""),
//	    securephotos.WithCompleter(myChatModel),
//	)
//	defer client.Close()
//	res, _ := client.MetadataSearch(ctx, "iPhone photos from May 2023")
//
// # Semantic search
//
// With an Embedder configured, SemanticSearch ranks photos by similarity of the
// query embedding to the stored summary embeddings:
//
//	client, _ := securephotos.New(ctx,
//	    securephotos.WithQdrant("http://localhost:6334", ""),
//	    securephotos.WithCompleter(myChatModel),
//	    securephotos.WithEmbedder(myEmbedder),
//	)
//	res, _ := client.SemanticSearch(ctx, "a lion roaring")
package securephotos
