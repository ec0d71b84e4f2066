package dynamo

// DynamoDB attribute names used in update expressions across all repos.
const (
	fieldSoftDelete = "soft_delete"
	fieldDeleted    = "deleted"
	fieldModified   = "modified"
)
