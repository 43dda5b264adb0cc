package fluentdoc

// KnownSection is a curated shortcut to a frequently requested section of
// the Fluent documentation. Keys are stable identifiers usable from the
// CLI without consulting a TOC snapshot.
type KnownSection struct {
	Key   string `json:"key"`
	Guide Guide  `json:"guide"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

// knownSections lists the curated sections in display order.
// Paths are version-independent; the resolver injects the version code.
var knownSections = []KnownSection{
	// Theory Guide: turbulence
	{Key: "turbulence_overview", Guide: GuideTheory, Title: "Turbulence (Chapter 4)", Path: "flu_th/flu_th_turb.html"},
	{Key: "k_epsilon", Guide: GuideTheory, Title: "k-ε Models Overview", Path: "flu_th/flu_th_sec_turb_keps.html"},
	{Key: "k_epsilon_standard", Guide: GuideTheory, Title: "Standard k-ε Model", Path: "flu_th/flu_th_sec_turb_ke_std.html"},
	{Key: "k_omega", Guide: GuideTheory, Title: "k-ω Models Overview", Path: "flu_th/flu_th_sec_turb_komega.html"},
	{Key: "k_omega_standard", Guide: GuideTheory, Title: "Standard k-ω Model", Path: "flu_th/flu_th_sec_turb_kw_std.html"},
	{Key: "k_omega_sst", Guide: GuideTheory, Title: "SST k-ω Model", Path: "flu_th/flu_th_sec_turb_kw_sst.html"},

	// Theory Guide: heat transfer and radiation
	{Key: "heat_transfer", Guide: GuideTheory, Title: "Heat Transfer Theory (5.2.1)", Path: "flu_th/flu_th_sec_hxfer_theory.html"},
	{Key: "natural_convection", Guide: GuideTheory, Title: "Natural Convection & Buoyancy (5.2.2)", Path: "flu_th/flu_th_sec_hxfer_buoy.html"},
	{Key: "radiation_overview", Guide: GuideTheory, Title: "Radiation Modeling (Chapter 5.3)", Path: "flu_th/flu_th_radiation.html"},
	{Key: "radiation_do", Guide: GuideTheory, Title: "Discrete Ordinates (DO) Model", Path: "flu_th/flu_th_sec_mod_disco.html"},
	{Key: "radiation_s2s", Guide: GuideTheory, Title: "Surface-to-Surface (S2S) Model", Path: "flu_th/flu_th_sec_rad_surface2surface.html"},

	// Theory Guide: other chapters
	{Key: "multiphase", Guide: GuideTheory, Title: "Multiphase Flows (Chapter 14)", Path: "flu_th/flu_th_multiphase.html"},
	{Key: "battery", Guide: GuideTheory, Title: "Battery Model (Chapter 19)", Path: "flu_th/flu_th_battery.html"},
	{Key: "solver_theory", Guide: GuideTheory, Title: "Solver Theory (Chapter 23)", Path: "flu_th/flu_th_solver.html"},

	// User's Guide
	{Key: "user_turbulence", Guide: GuideUser, Title: "User's Guide: Turbulence", Path: "flu_ug/flu_ug_turb.html"},
	{Key: "user_boundary", Guide: GuideUser, Title: "User's Guide: Boundary Conditions", Path: "flu_ug/flu_ug_bcs.html"},
	{Key: "user_heat_transfer", Guide: GuideUser, Title: "User's Guide: Heat Transfer", Path: "flu_ug/flu_ug_sec_hxfer.html"},
	{Key: "user_radiation", Guide: GuideUser, Title: "User's Guide: Radiation", Path: "flu_ug/flu_ug_sec_radiation.html"},

	// TUI reference
	{Key: "tui_define", Guide: GuideTUI, Title: "TUI: /define commands", Path: "flu_tcl/flu_tcl_define.html"},
	{Key: "tui_solve", Guide: GuideTUI, Title: "TUI: /solve commands", Path: "flu_tcl/flu_tcl_solve.html"},
}

// KnownSections returns the curated section list in stable display order.
// The returned slice is a copy and may be modified by the caller.
func KnownSections() []KnownSection {
	out := make([]KnownSection, len(knownSections))
	copy(out, knownSections)
	return out
}

// LookupSection finds a curated section by key.
// Returns ENOTFOUND for unknown keys.
func LookupSection(key string) (KnownSection, error) {
	for _, s := range knownSections {
		if s.Key == key {
			return s, nil
		}
	}
	return KnownSection{}, Errorf(ENOTFOUND, "unknown section key %q", key)
}
