// Package ambient reads and sanitizes values from the data sources of a web
// request: query parameters (GET), form fields (POST), the combined request
// map (REQUEST), server metadata (SERVER), environment variables (ENV) and
// host extensions such as cookies (COOKIE).
//
// All sources of one request live in a Snapshot. Lookups search one or more
// sources in priority order, sanitize the first match with the sanitizer
// package and fall back to a caller supplied default:
//
//	snap := ambient.New(
//	    ambient.WithQuery(value.Map{"bork": value.String("blarg")}),
//	    ambient.WithRequest(value.Map{"bork": value.String("<moo>")}),
//	)
//
//	snap.Var(ambient.Key{"bork"}, value.Null())      // "&lt;moo&gt;"
//	snap.QueryVar(ambient.Key{"bork"}, value.Null()) // "blarg"
//	snap.Var(ambient.Path("user", "name"), value.String("guest"))
//
// Entry points and the sources they search:
//
//	Var        REQUEST, POST, GET
//	QueryVar   GET
//	FormVar    POST
//	ServerVar  SERVER
//	SourceVar  any one source by name
//	Raw        any source by name, unsanitized
//	Sanitized  any source by name, sanitized
//
// Source names are case-insensitive and accept a leading underscore, so
// "get", "GET" and "_GET" are the same source. Unknown names yield an empty
// map.
//
// # Failure handling
//
// Lookups never return errors or panic. A missing key yields the default
// untouched, a number that fails revalidation becomes value.Invalid and an
// unsupported value becomes value.Null.
//
// # HTTP
//
// Reader builds snapshots from *http.Request, parsing bracketed field names
// such as "user[name]" and "tags[]" into nested data. Middleware stores the
// snapshot in the request context:
//
//	rd, err := ambient.NewReader(cfg)
//	if err != nil {
//	    return err
//	}
//	r.Use(ambient.Middleware(rd, ambient.WithLogger(log)))
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    page := ambient.FromContext(r.Context()).QueryVar(ambient.Key{"page"}, value.Int(1))
//	}
package ambient
