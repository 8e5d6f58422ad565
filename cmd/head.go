package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/periodica-press/deposit/format"
	"github.com/periodica-press/deposit/helpers"
)

// loadHead assembles the Crossref deposit head. Fields come from the
// YAML file when one is given; anything left empty falls back to
// DEPOSIT_* environment variables, and the timestamp defaults to the
// current time in the fixed-width form Crossref expects.
func loadHead(path string) (*format.DepositHead, error) {
	head := &format.DepositHead{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading head file: %w", err)
		}
		if err := yaml.Unmarshal(data, head); err != nil {
			return nil, fmt.Errorf("parsing head file: %w", err)
		}
	}

	_ = godotenv.Load()
	fillFromEnv(&head.DepositorName, "DEPOSIT_DEPOSITOR_NAME")
	fillFromEnv(&head.EmailAddress, "DEPOSIT_EMAIL_ADDRESS")
	fillFromEnv(&head.Registrant, "DEPOSIT_REGISTRANT")
	fillFromEnv(&head.PublicationDate, "DEPOSIT_PUBLICATION_DATE")
	fillFromEnv(&head.EPublicationDate, "DEPOSIT_EPUBLICATION_DATE")

	if head.Timestamp == "" {
		head.Timestamp = helpers.Timestamp("YYYYMMDDHHMMSS")
	}

	return head, nil
}

func fillFromEnv(field *string, key string) {
	if *field == "" {
		*field = os.Getenv(key)
	}
}
