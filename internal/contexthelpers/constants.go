package contexthelpers

type contextKey string

const TranslatorContextKey = contextKey("translator")
const CurrentPathContextKey = contextKey("currentPath")
