package config

import (
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// LoadSSM overlays parameters stored under SSM_PARAMETER_PATH onto c.
// Parameter "/chantier/prod/JWT_SECRET" becomes key JWT_SECRET. Values already
// present in the environment win.
func LoadSSM(ctx context.Context, c map[string]string) error {
	prefix := GetString(c, "SSM_PARAMETER_PATH", "")
	if prefix == "" {
		return nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}

	return overlayParameters(ctx, ssm.NewFromConfig(awsCfg), prefix, c)
}

func overlayParameters(ctx context.Context, client ssm.GetParametersByPathAPIClient, prefix string, c map[string]string) error {
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	loaded := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("read ssm parameters under %s: %w", prefix, err)
		}

		for _, p := range page.Parameters {
			key := path.Base(aws.ToString(p.Name))
			if _, exists := c[key]; exists {
				continue
			}
			c[key] = aws.ToString(p.Value)
			loaded++
		}
	}

	log.Info().Str("path", prefix).Int("parameters", loaded).Msg("Loaded configuration from SSM")
	return nil
}
