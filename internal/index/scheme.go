package index

var (
	bMeta     = []byte("meta")      // slug -> post JSON
	bIdxDate  = []byte("idx_date")  // invTime+seq+0x00+slug -> 1
	bIdxTag   = []byte("idx_tag")   // lowercased tag -> sub-bucket of date keys
	bTagNames = []byte("tag_names") // lowercased tag -> first-seen display casing
)
