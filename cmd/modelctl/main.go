package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/nulzo/model-capability-api/internal/cli"
	"github.com/nulzo/model-capability-api/internal/envfile"
	"github.com/nulzo/model-capability-api/internal/modeldata"
	"github.com/nulzo/model-capability-api/internal/registry"
	"github.com/nulzo/model-capability-api/pkg/api"
)

func main() {
	path := flag.String("env", envfile.DefaultPath, "env file to edit")
	flag.Parse()

	file, err := envfile.Load(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", cli.CrossMark(), err)
		os.Exit(1)
	}

	fmt.Printf("%s Custom model editor (%s)\n", cli.Arrow(), file.Path())

	for {
		sel := promptui.Select{
			Label: "Action",
			Items: []string{
				"List models",
				"Add model",
				"Remove model",
				"Test configuration",
				"Show raw JSON",
				"Export models to file",
				"Import models from file",
				"Save & exit",
				"Exit without saving",
			},
		}
		_, action, err := sel.Run()
		if err != nil {
			// Ctrl-C
			return
		}

		switch action {
		case "List models":
			listModels(file)
		case "Add model":
			addModel(file)
		case "Remove model":
			removeModel(file)
		case "Test configuration":
			testConfiguration(file)
		case "Show raw JSON":
			showRaw(file)
		case "Export models to file":
			exportModels(file)
		case "Import models from file":
			importModels(file)
		case "Save & exit":
			if err := file.Save(); err != nil {
				fmt.Printf("%s %v\n", cli.CrossMark(), err)
				continue
			}
			fmt.Printf("%s Saved %s\n", cli.CheckMark(), file.Path())
			fmt.Printf("%s restart the server to pick up changes\n", cli.Arrow())
			return
		case "Exit without saving":
			return
		}
	}
}

func listModels(file *envfile.File) {
	models, err := file.CustomModels()
	if err != nil {
		fmt.Printf("%s %v\n", cli.CrossMark(), err)
		return
	}
	if len(models) == 0 {
		fmt.Println(cli.Style("no custom models configured", cli.Dim))
		return
	}

	for _, name := range sortedNames(models) {
		cfg := models[name]
		line := fmt.Sprintf("%s  ctx=%d", cli.Style(name, cli.Bold), cfg.ContextWindow)
		if cfg.MaxOutputTokens != nil {
			line += fmt.Sprintf(" max_out=%d", *cfg.MaxOutputTokens)
		}
		if len(cfg.Aliases) > 0 {
			line += fmt.Sprintf(" aliases=%s", strings.Join(cfg.Aliases, ","))
		}
		fmt.Printf("  %s\n", line)
	}
}

func addModel(file *envfile.File) {
	models, err := file.CustomModels()
	if err != nil {
		fmt.Printf("%s %v\n", cli.CrossMark(), err)
		fmt.Println(cli.Style("Fix or clear the variable before editing.", cli.Yellow))
		return
	}

	namePrompt := promptui.Prompt{
		Label: "Model name",
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("name must not be empty")
			}
			return nil
		},
	}
	name, err := namePrompt.Run()
	if err != nil {
		return
	}
	name = strings.TrimSpace(name)

	if _, exists := models[name]; exists {
		fmt.Printf("%s %s\n", cli.Arrow(), cli.Style("existing entry will be replaced", cli.Yellow))
	}
	if isBuiltin(name) {
		fmt.Printf("%s %s\n", cli.Arrow(), cli.Style("this name shadows a built-in model", cli.Yellow))
	}

	ctxPrompt := promptui.Prompt{
		Label: "Context window (tokens)",
		Validate: func(s string) error {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil || n <= 0 {
				return fmt.Errorf("must be a positive integer")
			}
			return nil
		},
	}
	ctxStr, err := ctxPrompt.Run()
	if err != nil {
		return
	}
	ctxWindow, _ := strconv.Atoi(strings.TrimSpace(ctxStr))

	cfg := api.CustomModelConfig{ContextWindow: ctxWindow}

	maxPrompt := promptui.Prompt{
		Label: "Max output tokens (blank for default)",
		Validate: func(s string) error {
			s = strings.TrimSpace(s)
			if s == "" {
				return nil
			}
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				return fmt.Errorf("must be a positive integer or blank")
			}
			return nil
		},
	}
	maxStr, err := maxPrompt.Run()
	if err != nil {
		return
	}
	if s := strings.TrimSpace(maxStr); s != "" {
		n, _ := strconv.Atoi(s)
		cfg.MaxOutputTokens = &n
	}

	thinking := yes("Supports extended thinking?")
	cfg.SupportsExtendedThinking = &thinking

	images := yes("Supports images?")
	cfg.SupportsImages = &images

	temperature := yes("Supports temperature?")
	cfg.SupportsTemperature = &temperature

	aliasPrompt := promptui.Prompt{Label: "Aliases (comma separated, blank for none)"}
	aliasStr, err := aliasPrompt.Run()
	if err != nil {
		return
	}
	for _, a := range strings.Split(aliasStr, ",") {
		if a = strings.TrimSpace(a); a != "" {
			cfg.Aliases = append(cfg.Aliases, a)
		}
	}

	descPrompt := promptui.Prompt{Label: "Description (blank for none)"}
	desc, err := descPrompt.Run()
	if err != nil {
		return
	}
	cfg.Description = strings.TrimSpace(desc)

	models[name] = cfg
	if err := file.SetCustomModels(models); err != nil {
		fmt.Printf("%s %v\n", cli.CrossMark(), err)
		return
	}

	fmt.Printf("%s %s staged (save to persist)\n", cli.CheckMark(), cli.Style(name, cli.Bold))
}

func removeModel(file *envfile.File) {
	models, err := file.CustomModels()
	if err != nil {
		fmt.Printf("%s %v\n", cli.CrossMark(), err)
		return
	}
	if len(models) == 0 {
		fmt.Println(cli.Style("no custom models configured", cli.Dim))
		return
	}

	items := append(sortedNames(models), "(cancel)")
	sel := promptui.Select{Label: "Remove which model", Items: items}
	_, choice, err := sel.Run()
	if err != nil || choice == "(cancel)" {
		return
	}

	delete(models, choice)
	if err := file.SetCustomModels(models); err != nil {
		fmt.Printf("%s %v\n", cli.CrossMark(), err)
		return
	}

	fmt.Printf("%s removed %s (save to persist)\n", cli.CheckMark(), cli.Style(choice, cli.Bold))
}

// testConfiguration runs the staged blob through the same registry loader
// the service uses, so what passes here loads there.
func testConfiguration(file *envfile.File) {
	reg := registry.New(api.ProviderOpenAI)
	if err := reg.Seed(modeldata.OpenAIModels); err != nil {
		fmt.Printf("%s %v\n", cli.CrossMark(), err)
		return
	}

	result, err := reg.LoadCustomJSON(file.Get(envfile.CustomModelsVar))
	if err != nil {
		fmt.Printf("%s %v\n", cli.CrossMark(), err)
		fmt.Println(cli.Style("The service would serve built-in models only.", cli.Yellow))
		return
	}

	for _, name := range result.Loaded {
		fmt.Printf("%s %s\n", cli.CheckMark(), name)
	}
	for _, s := range result.Skipped {
		fmt.Printf("%s %s: %s\n", cli.CrossMark(), s.Name, s.Reason)
	}

	fmt.Printf("%s %d custom entries loaded, %d models in registry\n",
		cli.Arrow(), len(result.Loaded), reg.Len())
}

func exportModels(file *envfile.File) {
	models, err := file.CustomModels()
	if err != nil {
		fmt.Printf("%s %v\n", cli.CrossMark(), err)
		return
	}
	if len(models) == 0 {
		fmt.Println(cli.Style("no custom models to export", cli.Dim))
		return
	}

	pathPrompt := promptui.Prompt{Label: "Export path", Default: "custom-models.json"}
	path, err := pathPrompt.Run()
	if err != nil {
		return
	}

	raw, err := json.MarshalIndent(models, "", "  ")
	if err != nil {
		fmt.Printf("%s %v\n", cli.CrossMark(), err)
		return
	}
	if err := os.WriteFile(strings.TrimSpace(path), raw, 0o644); err != nil {
		fmt.Printf("%s %v\n", cli.CrossMark(), err)
		return
	}

	fmt.Printf("%s exported %d models to %s\n", cli.CheckMark(), len(models), strings.TrimSpace(path))
}

func importModels(file *envfile.File) {
	models, err := file.CustomModels()
	if err != nil {
		fmt.Printf("%s %v\n", cli.CrossMark(), err)
		fmt.Println(cli.Style("Fix or clear the variable before editing.", cli.Yellow))
		return
	}

	pathPrompt := promptui.Prompt{Label: "Import path", Default: "custom-models.json"}
	path, err := pathPrompt.Run()
	if err != nil {
		return
	}

	raw, err := os.ReadFile(strings.TrimSpace(path))
	if err != nil {
		fmt.Printf("%s %v\n", cli.CrossMark(), err)
		return
	}

	var incoming map[string]api.CustomModelConfig
	if err := json.Unmarshal(raw, &incoming); err != nil {
		fmt.Printf("%s %v\n", cli.CrossMark(), err)
		return
	}

	added := 0
	for _, name := range sortedNames(incoming) {
		cfg := incoming[name]
		if cfg.ContextWindow <= 0 {
			fmt.Printf("%s %s: context_window must be positive\n", cli.CrossMark(), name)
			continue
		}
		if _, exists := models[name]; exists {
			sel := promptui.Select{
				Label: fmt.Sprintf("%s already exists", name),
				Items: []string{"skip", "overwrite"},
			}
			_, choice, err := sel.Run()
			if err != nil || choice == "skip" {
				continue
			}
		}
		models[name] = cfg
		added++
	}

	if added == 0 {
		fmt.Println(cli.Style("nothing imported", cli.Dim))
		return
	}
	if err := file.SetCustomModels(models); err != nil {
		fmt.Printf("%s %v\n", cli.CrossMark(), err)
		return
	}

	fmt.Printf("%s imported %d models (save to persist)\n", cli.CheckMark(), added)
}

func showRaw(file *envfile.File) {
	raw := file.Get(envfile.CustomModelsVar)
	if raw == "" {
		fmt.Println(cli.Style("unset", cli.Dim))
		return
	}

	var v interface{}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		fmt.Println(raw)
		return
	}
	cli.PrettyPrint(v)
}

func yes(label string) bool {
	sel := promptui.Select{Label: label, Items: []string{"no", "yes"}}
	_, choice, err := sel.Run()
	return err == nil && choice == "yes"
}

func sortedNames(models map[string]api.CustomModelConfig) []string {
	names := make([]string, 0, len(models))
	for name := range models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isBuiltin(name string) bool {
	needle := strings.ToLower(name)
	for _, m := range modeldata.OpenAIModels {
		if strings.ToLower(m.ModelName) == needle {
			return true
		}
		for _, a := range m.Aliases {
			if strings.ToLower(a) == needle {
				return true
			}
		}
	}
	return false
}
