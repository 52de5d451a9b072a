package types

// CallerIdentity represents the AWS principal the credentials resolve to
type CallerIdentity struct {
	Account string `yaml:"account"`
	Arn     string `yaml:"arn"`
	UserID  string `yaml:"user_id"`
}
