package aws

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/vietdv277/asgroll/pkg/provider"
	pkgtypes "github.com/vietdv277/asgroll/pkg/types"
)

// GetCallerIdentity returns the current AWS caller identity
func (c *Client) GetCallerIdentity() (*pkgtypes.CallerIdentity, error) {
	output, err := c.STS.GetCallerIdentity(c.ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		switch errorCode(err) {
		case "ExpiredToken", "InvalidClientTokenId", "SignatureDoesNotMatch":
			return nil, fmt.Errorf("%w: %w", provider.ErrAuthFailed, err)
		}
		return nil, wrapAPIError("get caller identity", err)
	}

	return &pkgtypes.CallerIdentity{
		Account: deref(output.Account),
		Arn:     deref(output.Arn),
		UserID:  deref(output.UserId),
	}, nil
}
