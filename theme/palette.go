package theme

// palette maps "<hue>-<shade>" to a hex value. Only hues used by the
// document fragments are listed.
var palette = map[string]string{
	"white": "#ffffff",
	"black": "#000000",

	"slate-50": "#f8fafc", "slate-100": "#f1f5f9", "slate-200": "#e2e8f0", "slate-300": "#cbd5e1",
	"slate-400": "#94a3b8", "slate-500": "#64748b", "slate-600": "#475569", "slate-700": "#334155",
	"slate-800": "#1e293b", "slate-900": "#0f172a",

	"gray-50": "#f9fafb", "gray-100": "#f3f4f6", "gray-200": "#e5e7eb", "gray-300": "#d1d5db",
	"gray-400": "#9ca3af", "gray-500": "#6b7280", "gray-600": "#4b5563", "gray-700": "#374151",
	"gray-800": "#1f2937", "gray-900": "#111827",

	"red-50": "#fef2f2", "red-100": "#fee2e2", "red-200": "#fecaca", "red-300": "#fca5a5",
	"red-400": "#f87171", "red-500": "#ef4444", "red-600": "#dc2626", "red-700": "#b91c1c",
	"red-800": "#991b1b", "red-900": "#7f1d1d",

	"orange-50": "#fff7ed", "orange-100": "#ffedd5", "orange-200": "#fed7aa", "orange-300": "#fdba74",
	"orange-400": "#fb923c", "orange-500": "#f97316", "orange-600": "#ea580c", "orange-700": "#c2410c",
	"orange-800": "#9a3412", "orange-900": "#7c2d12",

	"yellow-50": "#fefce8", "yellow-100": "#fef9c3", "yellow-200": "#fef08a", "yellow-300": "#fde047",
	"yellow-400": "#facc15", "yellow-500": "#eab308", "yellow-600": "#ca8a04", "yellow-700": "#a16207",
	"yellow-800": "#854d0e", "yellow-900": "#713f12",

	"green-50": "#f0fdf4", "green-100": "#dcfce7", "green-200": "#bbf7d0", "green-300": "#86efac",
	"green-400": "#4ade80", "green-500": "#22c55e", "green-600": "#16a34a", "green-700": "#15803d",
	"green-800": "#166534", "green-900": "#14532d",

	"emerald-50": "#ecfdf5", "emerald-100": "#d1fae5", "emerald-200": "#a7f3d0", "emerald-300": "#6ee7b7",
	"emerald-400": "#34d399", "emerald-500": "#10b981", "emerald-600": "#059669", "emerald-700": "#047857",
	"emerald-800": "#065f46", "emerald-900": "#064e3b",

	"blue-50": "#eff6ff", "blue-100": "#dbeafe", "blue-200": "#bfdbfe", "blue-300": "#93c5fd",
	"blue-400": "#60a5fa", "blue-500": "#3b82f6", "blue-600": "#2563eb", "blue-700": "#1d4ed8",
	"blue-800": "#1e40af", "blue-900": "#1e3a8a",
}

// overlays are the opacity variants the fragments use; each gets its own rule.
var overlays = []string{
	"bg-slate-50/50",
	"bg-green-50/30",
}
