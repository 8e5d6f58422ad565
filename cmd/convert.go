package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/periodica-press/deposit/format"
)

var (
	inputFile  string
	outputFile string
	headFile   string
	stripHTML  bool
	pretty     bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <from> <to>",
	Short: "Convert metadata between formats",
	Long: `Convert journal article metadata from one format to another.

Arguments:
  from    Source format (jats, yaml)
  to      Target format (jats, crossref, doaj, yaml)

Input defaults to stdin, output defaults to stdout.

The crossref target needs batch head metadata (depositor, registrant,
issue publication dates). Supply it with --head; fields the file omits
fall back to DEPOSIT_* environment variables, which may live in a .env
file next to the working directory.

Examples:
  # JATS article to a Crossref deposit batch
  deposit convert jats crossref -i article.xml -o batch.xml --head head.yaml

  # YAML records to DOAJ upload XML (stdin to stdout)
  cat records.yaml | deposit convert yaml doaj

  # Imported JATS back to editable YAML
  deposit convert jats yaml -i article.xml -o article.yaml`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input file (default: stdin)")
	convertCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	convertCmd.Flags().StringVar(&headFile, "head", "", "Deposit head metadata YAML file (crossref)")
	convertCmd.Flags().BoolVar(&stripHTML, "strip-html", true, "Strip HTML from titles, abstracts and citations")
	convertCmd.Flags().BoolVar(&pretty, "pretty", true, "Indent XML output")
}

func runConvert(cmd *cobra.Command, args []string) (err error) {
	fromFormat := args[0]
	toFormat := args[1]

	// Determine input source
	var input io.Reader
	var inputName string

	if inputFile != "" {
		f, err := os.Open(inputFile)
		if err != nil {
			return fmt.Errorf("opening input file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing input file: %w", cerr)
			}
		}()
		input = f
		inputName = inputFile
	} else {
		input = os.Stdin
		inputName = "stdin"
	}

	// Determine output destination
	var output io.Writer
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing output file: %w", cerr)
			}
		}()
		output = f
	} else {
		output = os.Stdout
	}

	parser, err := format.GetParser(fromFormat)
	if err != nil {
		return fmt.Errorf("unknown source format %q: %w", fromFormat, err)
	}

	serializer, err := format.GetSerializer(toFormat)
	if err != nil {
		return fmt.Errorf("unknown target format %q: %w", toFormat, err)
	}

	parseOpts := &format.ParseOptions{
		StripHTML:  stripHTML,
		SourceName: inputName,
	}

	records, err := parser.Parse(input, parseOpts)
	if err != nil {
		return fmt.Errorf("parsing input: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Parsed %d records\n", len(records))

	serializeOpts := &format.SerializeOptions{
		Pretty: pretty,
	}

	if toFormat == "crossref" {
		head, err := loadHead(headFile)
		if err != nil {
			return fmt.Errorf("loading deposit head: %w", err)
		}
		serializeOpts.Head = head
	}

	if err := serializer.Serialize(output, records, serializeOpts); err != nil {
		return fmt.Errorf("serializing output: %w", err)
	}

	return nil
}
