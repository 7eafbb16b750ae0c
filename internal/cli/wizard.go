package cli

import (
	"errors"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	errs "github.com/oitsjustjose/MC-Docker/internal/errors"
	"github.com/oitsjustjose/MC-Docker/internal/interfaces"
)

const (
	loaderNone   = "None"
	loaderForge  = "Forge"
	loaderFabric = "Fabric"
	loaderPack   = "CurseForge modpack"

	levelImageDefault = "Image default"
)

// promptForOptions walks through the create options interactively. Each prompt
// is seeded with the already merged flag, file and config value.
func promptForOptions(defaults interfaces.ServerOptions) (interfaces.ServerOptions, error) {
	opts := defaults

	version, err := provideInput("Minecraft version to run:", defaults.Version)
	if err != nil {
		return opts, errs.NewGenericError("could not read version input", err)
	}
	opts.Version = version

	java, err := selectOption("Java version for the server image:", javaChoices(defaults.Java), defaults.Java)
	if err != nil {
		return opts, errs.NewGenericError("could not select java version", err)
	}
	opts.Java = java

	port, err := selectTCPPort(defaults.Port)
	if err != nil {
		return opts, errs.NewGenericError("could not select tcp port", err)
	}
	opts.Port = port

	root, err := provideInput("Host directory for world data:", defaults.Root)
	if err != nil {
		return opts, errs.NewGenericError("could not read data directory input", err)
	}
	opts.Root = root

	motd, err := provideOptionalInput("Message of the day (blank keeps the image default):", defaults.MOTD)
	if err != nil {
		return opts, errs.NewGenericError("could not read motd input", err)
	}
	opts.MOTD = motd

	memory, err := provideOptionalInput("JVM heap size, e.g. 4G (blank keeps the image default):", defaults.Memory)
	if err != nil {
		return opts, errs.NewGenericError("could not read memory input", err)
	}
	opts.Memory = memory

	aikar, err := confirm("Use Aikar's JVM flags?", defaults.Aikar)
	if err != nil {
		return opts, errs.NewGenericError("could not read confirmation", err)
	}
	opts.Aikar = aikar

	levelDefault := defaults.LevelType
	if levelDefault == "" {
		levelDefault = levelImageDefault
	}
	level, err := selectOption("World type:", levelChoices(defaults.LevelType), levelDefault)
	if err != nil {
		return opts, errs.NewGenericError("could not select world type", err)
	}
	if level == levelImageDefault {
		opts.LevelType = ""
	} else {
		opts.LevelType = level
	}

	if err := promptForModLoader(&opts, defaults); err != nil {
		return opts, err
	}

	return opts, nil
}

// promptForModLoader picks at most one of Forge, Fabric or a CurseForge
// modpack and clears the other sources.
func promptForModLoader(opts *interfaces.ServerOptions, defaults interfaces.ServerOptions) error {
	loader, err := selectOption("Mod loader:",
		[]string{loaderNone, loaderForge, loaderFabric, loaderPack},
		loaderDefault(defaults))
	if err != nil {
		return errs.NewGenericError("could not select mod loader", err)
	}

	opts.Forge, opts.Fabric, opts.Modpack = "", "", ""
	switch loader {
	case loaderForge:
		src, err := provideInput("Forge installer URL or file name in the data directory:", defaults.Forge)
		if err != nil {
			return errs.NewGenericError("could not read forge source", err)
		}
		opts.Forge = src
	case loaderFabric:
		src, err := provideInput("Fabric installer URL or file name in the data directory:", defaults.Fabric)
		if err != nil {
			return errs.NewGenericError("could not read fabric source", err)
		}
		opts.Fabric = src
	case loaderPack:
		src, err := provideInput("CurseForge modpack URL or slug:", defaults.Modpack)
		if err != nil {
			return errs.NewGenericError("could not read modpack source", err)
		}
		opts.Modpack = src
	}
	return nil
}

func loaderDefault(opts interfaces.ServerOptions) string {
	switch {
	case opts.Forge != "":
		return loaderForge
	case opts.Fabric != "":
		return loaderFabric
	case opts.Modpack != "":
		return loaderPack
	default:
		return loaderNone
	}
}

// javaChoices lists the published image tags, keeping an off-list configured
// default selectable.
func javaChoices(current string) []string {
	choices := []string{"8", "11", "17", "21"}
	for _, c := range choices {
		if c == current {
			return choices
		}
	}
	if current == "" {
		return choices
	}
	return append(choices, current)
}

// levelChoices lists the common world types, keeping an off-list value
// selectable.
func levelChoices(current string) []string {
	choices := []string{levelImageDefault, "DEFAULT", "FLAT", "LARGEBIOMES", "AMPLIFIED"}
	if current == "" {
		return choices
	}
	for _, c := range choices {
		if c == current {
			return choices
		}
	}
	return append(choices, current)
}

func selectTCPPort(defaultPort int) (int, error) {
	// Convert default to string for Survey
	portStr := strconv.Itoa(defaultPort)

	prompt := &survey.Input{
		Message: "Host TCP port for the game:",
		Default: portStr,
	}

	validator := func(val interface{}) error {
		str, ok := val.(string)
		if !ok {
			return errors.New("invalid input")
		}

		str = strings.TrimSpace(str)

		// must be a number
		num, err := strconv.Atoi(str)
		if err != nil {
			return errors.New("must be a number")
		}

		// must be a valid TCP port
		if num < 1 || num > 65535 {
			return errors.New("port must be between 1 and 65535")
		}

		return nil
	}

	if err := survey.AskOne(prompt, &portStr, survey.WithValidator(validator)); err != nil {
		return 0, err
	}

	port, _ := strconv.Atoi(portStr)
	return port, nil
}

func selectOption(message string, options []string, defaultOption string) (string, error) {
	var selected string

	prompt := &survey.Select{
		Message: message,
		Options: options,
		Default: defaultOption, // Defaults to empty if none is provided
	}

	if err := survey.AskOne(prompt, &selected, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}

	return selected, nil
}

func provideInput(message string, defaultValue string) (string, error) {
	content := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &content, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		content = defaultValue
	}

	return content, nil
}

func provideOptionalInput(message string, defaultValue string) (string, error) {
	content := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &content); err != nil {
		return "", err
	}

	return strings.TrimSpace(content), nil
}

func confirm(message string, defaultValue bool) (bool, error) {
	answer := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return false, err
	}

	return answer, nil
}
