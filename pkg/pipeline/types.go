package pipeline

// Pipeline is the root object that holds the entire configuration for a ShipKit run.
// It's populated by parsing the user's shipkit.yaml file.
type Pipeline struct {
	APIVersion string   `yaml:"apiVersion" validate:"required"`
	Kind       string   `yaml:"kind" validate:"required,eq=Pipeline"`
	Metadata   Metadata `yaml:"metadata" validate:"required"`
	Spec       Spec     `yaml:"spec" validate:"required"`
}

// Metadata contains release-job metadata.
type Metadata struct {
	Name        string            `yaml:"name" validate:"required"`
	Description string            `yaml:"description"`
	Labels      map[string]string `yaml:"labels,omitempty"`
}

// Spec contains the detailed specifications for one release run.
type Spec struct {
	Source  Source  `yaml:"source" validate:"required"`
	Build   Build   `yaml:"build" validate:"required"`
	Package Package `yaml:"package" validate:"required"`
	Publish Publish `yaml:"publish" validate:"required"`
	Notify  Notify  `yaml:"notify" validate:"required"`
}

// Source configures the release-branch checkout.
type Source struct {
	Provider    string `yaml:"provider" validate:"required,oneof=git"`
	URL         string `yaml:"url" validate:"required,url"`
	Branch      string `yaml:"branch" validate:"required"`
	TokenEnv    string `yaml:"tokenEnv"`
	Destination string `yaml:"destination" validate:"required"`
}

// Build configures the native build stage.
type Build struct {
	Runtime string        `yaml:"runtime" validate:"required,oneof=local docker"`
	Image   string        `yaml:"image" validate:"required_if=Runtime docker"`
	Modules []BuildModule `yaml:"modules" validate:"required,min=1,dive"`
}

// BuildModule is one build-tool invocation within the build stage.
// Modules build in declared order.
type BuildModule struct {
	Name    string   `yaml:"name" validate:"required"`
	Dir     string   `yaml:"dir"`
	Command string   `yaml:"command" validate:"required"`
	Args    []string `yaml:"args"`
}

// Package configures artifact staging, signing, repository metadata,
// and archival.
type Package struct {
	ReleaseDir     string   `yaml:"releaseDir" validate:"required"`
	Artifacts      []string `yaml:"artifacts" validate:"required,min=1"`
	SignScript     string   `yaml:"signScript" validate:"required"`
	RepoCommand    string   `yaml:"repoCommand" validate:"required"`
	RepoFileScript string   `yaml:"repoFileScript" validate:"required"`
	ArchiveName    string   `yaml:"archiveName" validate:"required"`
}

// Publish configures the cloud upload and the optional SCM release tag.
type Publish struct {
	Storage Storage  `yaml:"storage" validate:"required"`
	Release *Release `yaml:"release,omitempty"`
}

// Storage describes the object-storage target. The named CLI must support
// `cp` style uploads and website configuration, gsutil-fashion.
type Storage struct {
	Command      string `yaml:"command" validate:"required"`
	Bucket       string `yaml:"bucket" validate:"required"`
	WebsiteIndex string `yaml:"websiteIndex"`
}

// Release configures the post-publish release tag on the source project.
type Release struct {
	URL      string `yaml:"url" validate:"required,url"`
	Project  string `yaml:"project" validate:"required"`
	TokenEnv string `yaml:"tokenEnv" validate:"required"`
}

// Notify configures the operator-facing webhook channel.
type Notify struct {
	Channel    string `yaml:"channel" validate:"required"`
	WebhookEnv string `yaml:"webhookEnv" validate:"required"`
}
