package porter

// HashAlgo represents a supported hashing algorithm.
// Use these constants in struct tags: `dto.hash:"sha256"`
type HashAlgo string

const (
	// HashArgon2 uses Argon2id (salted, slow).
	HashArgon2 HashAlgo = "argon2"

	// HashBcrypt uses bcrypt (salted, slow).
	HashBcrypt HashAlgo = "bcrypt"

	// HashSHA256 uses SHA-256 for deterministic fingerprints.
	HashSHA256 HashAlgo = "sha256"

	// HashSHA512 uses SHA-512 for deterministic fingerprints.
	HashSHA512 HashAlgo = "sha512"
)

// MaskType represents a known data format with masking rules.
// Use these constants in struct tags: `dto.mask:"email"`
type MaskType string

const (
	MaskSSN   MaskType = "ssn"   // 123-45-6789 -> ***-**-6789
	MaskEmail MaskType = "email" // alice@example.com -> a***@example.com
	MaskPhone MaskType = "phone" // (555) 123-4567 -> (***) ***-4567
	MaskCard  MaskType = "card"  // 4111111111111111 -> ************1111
	MaskUUID  MaskType = "uuid"  // 550e8400-e29b-... -> 550e8400-****-****-****-************
	MaskName  MaskType = "name"  // John Smith -> J*** S****
)
