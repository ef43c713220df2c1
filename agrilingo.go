// Package agrilingo provides the translation layer of the farmer dashboard.
//
// A Service resolves UI text into the selected language through a layered
// lookup chain: an in-memory cache, a persisted cache, a static phrase
// dictionary, and finally a remote translation provider. Remote lookups go
// through a single serialized queue that spaces outbound calls and remembers
// keys that failed, so a broken phrase is never retried within a session.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/agrilingo"
//	    "github.com/ZaguanLabs/agrilingo/provider"
//	    "github.com/ZaguanLabs/agrilingo/store"
//	)
//
//	func main() {
//	    p := provider.NewLibreTranslateProvider(provider.LibreTranslateConfig{
//	        BaseURL: "https://libretranslate.com",
//	    })
//
//	    svc := agrilingo.NewService(p,
//	        agrilingo.WithStore(store.NewMemoryStore()),
//	    )
//	    defer svc.Close()
//
//	    svc.ChangeLanguage(context.Background(), "hi")
//	    fmt.Println(svc.Resolve("Dashboard", "")) // डैशबोर्ड
//
//	    text, _ := svc.Await(context.Background(), "Sowing window", "")
//	    fmt.Println(text)
//	}
package agrilingo
