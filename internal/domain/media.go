package domain

type Media struct {
	MediaID     string  `json:"mediaId" dynamodbav:"media_id"`
	Filename    string  `json:"filename" dynamodbav:"filename"`
	Object      string  `json:"object" dynamodbav:"object"` // S3 key
	ContentType string  `json:"contentType" dynamodbav:"content_type"`
	Size        int64   `json:"size" dynamodbav:"size"`
	Hash        string  `json:"hash" dynamodbav:"hash"` // sha256 hex
	AnimalID    *string `json:"animalId,omitempty" dynamodbav:"animal_id"`
	UploadedBy  string  `json:"uploadedBy" dynamodbav:"uploaded_by"`
	SoftDelete  bool    `json:"softDelete" dynamodbav:"soft_delete"`
	Created     Stamp   `json:"created" dynamodbav:"created"`
	Modified    *Stamp  `json:"modified,omitempty" dynamodbav:"modified"`
	Deleted     *Stamp  `json:"deleted,omitempty" dynamodbav:"deleted"`
}
