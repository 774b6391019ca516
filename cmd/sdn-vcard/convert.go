package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spacedatanetwork/sdn-vcard/internal/api"
	"github.com/spacedatanetwork/sdn-vcard/internal/peercard"
	"github.com/spacedatanetwork/sdn-vcard/internal/textcard"
	"github.com/spacedatanetwork/sdn-vcard/internal/vcard"
)

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Convert vCards between formats",
	Long: `Convert vCards between text, xml (xCard), json (jCard), html (hCard) and
qr (PNG). The input format defaults to the file extension, else text.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

var qrCmd = &cobra.Command{
	Use:   "qr [file]",
	Short: "Render a text vCard as a QR code PNG",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runQR,
}

var scanCmd = &cobra.Command{
	Use:   "scan <png>",
	Short: "Read the vCard held in a QR code PNG",
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

var embedCmd = &cobra.Command{
	Use:   "embed <vcard> <file>",
	Short: "Embed a file as PHOTO, LOGO, SOUND or KEY",
	Long: `Embed a file into the first vCard of a text vCard file. The media type is
detected from the file contents.`,
	Args: cobra.ExactArgs(2),
	RunE: runEmbed,
}

var peerCmd = &cobra.Command{
	Use:   "peer [file]",
	Short: "Show the SDN peer profiles held in vCards",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPeer,
}

var (
	convertFrom    string
	convertTo      string
	convertVersion string
	convertIndent  int
	outPath        string
	qrSize         int
	qrOut          string
	embedProperty  string
)

func init() {
	convertCmd.Flags().StringVarP(&convertFrom, "from", "f", "", "input format: text, xml, json, html, qr")
	convertCmd.Flags().StringVarP(&convertTo, "to", "t", "xml", "output format: text, xml, json, html, qr")
	convertCmd.Flags().StringVar(&convertVersion, "version", "", "text output version (overrides config)")
	convertCmd.Flags().IntVar(&convertIndent, "indent", 0, "xml/json indentation, negative for one line (overrides config)")
	convertCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	qrCmd.Flags().IntVarP(&qrSize, "size", "s", 0, "QR code size in pixels (default from config)")
	qrCmd.Flags().StringVarP(&qrOut, "out", "o", "vcard.png", "output PNG file")

	embedCmd.Flags().StringVarP(&embedProperty, "property", "p", vcard.PropPhoto, "PHOTO, LOGO, SOUND or KEY")
	embedCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	rootCmd.AddCommand(convertCmd, qrCmd, scanCmd, embedCmd, peerCmd)
}

func inputFormat(path, flag string) string {
	if flag != "" {
		return flag
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return "xml"
	case ".json":
		return "json"
	case ".html", ".htm":
		return "html"
	case ".png":
		return "qr"
	}
	return "text"
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	var path string
	if len(args) > 0 {
		path = args[0]
	}
	data, err := readInput(path)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	opts, err := conversionDefaults(cfg, convertTo)
	if err != nil {
		return err
	}
	opts.From = inputFormat(path, convertFrom)
	if convertVersion != "" {
		if opts.Version, err = vcard.ParseVersion(convertVersion); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("indent") {
		opts.Indent = convertIndent
	}

	result, err := api.NewConverter(nil).Convert(cmd.Context(), data, opts)
	if err != nil {
		return err
	}
	printWarnings(result.Warnings)
	return writeOutput(outPath, result.Body)
}

func runQR(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	var path string
	if len(args) > 0 {
		path = args[0]
	}
	data, err := readInput(path)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	opts, err := conversionDefaults(cfg, "qr")
	if err != nil {
		return err
	}
	if qrSize > 0 {
		opts.QRSize = qrSize
	}
	result, err := api.NewConverter(nil).Convert(cmd.Context(), data, opts)
	if err != nil {
		return err
	}
	printWarnings(result.Warnings)
	if err := writeOutput(qrOut, result.Body); err != nil {
		return err
	}
	log.Infof("Wrote %dx%d QR code to %s", opts.QRSize, opts.QRSize, qrOut)
	return nil
}

func runScan(cmd *cobra.Command, args []string) error {
	data, err := readInput(args[0])
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	text, err := textcard.QRToText(data)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), text)
	return nil
}

func runEmbed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	registry := peercard.Registry()

	cardData, err := readInput(args[0])
	if err != nil {
		return fmt.Errorf("failed to read vCard: %w", err)
	}
	cards, warnings, err := textcard.Parse(bytes.NewReader(cardData), registry)
	if err != nil {
		return err
	}
	printWarnings(warnings)

	payload, err := readInput(args[1])
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var prop vcard.Property
	switch strings.ToUpper(embedProperty) {
	case vcard.PropPhoto:
		prop = vcard.NewPhotoData(payload, vcard.SniffMediaType(payload, vcard.ImageTypes))
	case vcard.PropLogo:
		prop = vcard.NewLogoData(payload, vcard.SniffMediaType(payload, vcard.ImageTypes))
	case vcard.PropSound:
		prop = vcard.NewSoundData(payload, vcard.SniffMediaType(payload, vcard.SoundTypes))
	case vcard.PropKey:
		prop = vcard.NewKeyData(payload, vcard.SniffMediaType(payload, vcard.KeyTypes))
	default:
		return fmt.Errorf("cannot embed into %s", embedProperty)
	}
	cards[0].Add(prop)
	log.Debugf("embedded %d bytes as %s (%s)", len(payload), prop.Name(),
		prop.(vcard.BinaryProperty).BinaryValue().ContentType().MediaType())

	version, err := cfg.TextVersion()
	if err != nil {
		return err
	}
	var out strings.Builder
	warnings, err = textcard.Write(&out, cards, textcard.Config{
		Version:   version,
		AddProdID: cfg.Text.AddProdID,
		Registry:  registry,
	})
	if err != nil {
		return err
	}
	printWarnings(warnings)
	return writeOutput(outPath, []byte(out.String()))
}

func runPeer(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) > 0 {
		path = args[0]
	}
	data, err := readInput(path)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	conv := api.NewConverter(nil)
	cards, warnings, err := conv.Read(cmd.Context(), data, inputFormat(path, ""), "")
	if err != nil {
		return err
	}
	printWarnings(warnings)

	profiles, err := peercard.FromCards(cards)
	if err != nil {
		return err
	}
	for _, p := range profiles {
		fmt.Fprintln(cmd.OutOrStdout(), p)
		for _, addr := range p.Addrs {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", addr)
		}
	}
	return nil
}
