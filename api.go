// Package porter normalizes data transfer objects into ordered key/value
// mappings ready for encoding.
//
// A DTO is a struct that embeds porter.DTO (or is registered with
// Register). Its exported fields become entries of an ordered mapping, in
// declaration order. Two per-field directives shape the result:
//
//	dto.key:"name"          - emit the field under "name" instead of its Go name
//	dto.extract:"owner.id"  - emit the value found at a path inside the field
//
// The mapping is handed back to the Serializer, which normalizes nested
// values through the same chain and encodes the result with a codec.
//
// # Basic Usage
//
//	type User struct {
//	    ID   int
//	    Name string
//	}
//
//	type OrderView struct {
//	    porter.DTO
//	    ID       int    `dto.key:"id"`
//	    FullName string `dto.key:"name"`
//	    Owner    User   `dto.key:"owner" dto.extract:"Name"`
//	}
//
//	s := porter.New(porter.WithCodec(json.New()))
//	data, _ := s.Serialize(ctx, OrderView{ID: 5, FullName: "Bob", Owner: User{Name: "Alice"}}, "json")
//	// {"id":5,"name":"Bob","owner":"Alice"}
//
// # Extraction Paths
//
// Paths are dotted segments with optional bracket indices ("items[0].sku",
// "[region]"). Each segment reads an exported struct field (exact name,
// capitalized name, or json tag name), a zero-argument getter (GetX, X,
// IsX, HasX), a map key or a slice index. Values implementing
// PathExtractor and json.RawMessage values resolve the remaining path
// themselves. An unresolvable path fails the call with *ExtractionError.
//
// # Field Transforms
//
// Resolved values may be transformed before they are emitted:
//
//	dto.hash:"sha256"   - sha256, sha512, argon2, bcrypt
//	dto.mask:"email"    - ssn, email, phone, card, uuid, name
//	dto.redact:"***"    - replace the value
//
// # Metadata Sources
//
// Directives come from struct tags by default (TagSource). FileSource
// reads them from YAML and ChainSource merges several sources.
//
// # Entity Identifiers
//
// Inside a DTO mapping, values implementing Identifiable collapse to
// their EntityID(). The DTO normalizer marks the attributes it hands to
// the serializer with AttrDTOOrigin for this purpose.
//
// # Codec Providers
//
// Order-preserving codecs are available as subpackages:
//
//   - json - JSON encoding (application/json)
//   - yaml - YAML encoding (application/yaml)
//   - msgpack - MessagePack encoding (application/msgpack)
//   - bson - BSON encoding (application/bson)
package porter
