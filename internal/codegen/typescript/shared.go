package typescript

import (
	"fmt"
	"strings"

	"github.com/cmsgen/cmsgen/internal/codegen"
	"github.com/cmsgen/cmsgen/internal/codegen/layout"
	"github.com/cmsgen/cmsgen/internal/codegen/tsfile"
	"github.com/cmsgen/cmsgen/internal/codegen/writer"
	"github.com/cmsgen/cmsgen/internal/schema"
)

// SharedGenerator emits the layout-independent modules every other artifact
// imports: the client factory, the utility types, the locale registry and
// the optional upload helpers. It must run before the per-entity generators
// only in the sense that their import paths assume these modules exist.
type SharedGenerator struct{}

func (SharedGenerator) Name() string { return "shared" }

func (g SharedGenerator) Generate(s *schema.ParsedSchema, opts codegen.Options) ([]codegen.File, error) {
	files := []codegen.File{
		g.utilsFile(opts),
		g.clientFile(opts),
		g.localesFile(s, opts),
	}
	if opts.Artifacts.Upload {
		files = append(files, g.uploadFile(opts))
	}
	return files, nil
}

// utilsFile emits the version-specific base entity, media, pagination and
// filter-operator shapes.
func (g SharedGenerator) utilsFile(opts codegen.Options) codegen.File {
	f := tsfile.New(layout.SharedModule(layout.Utils))
	v5 := opts.Version == codegen.V5

	baseFields := []field{{name: "id", expr: "number"}}
	if v5 {
		baseFields = append(baseFields, field{name: "documentId", expr: "string"})
	}
	baseFields = append(baseFields,
		field{name: "createdAt", expr: "string"},
		field{name: "updatedAt", expr: "string"},
	)

	mediaFields := []field{{name: "id", expr: "number"}}
	if v5 {
		mediaFields = append(mediaFields, field{name: "documentId", expr: "string"})
	}
	mediaFields = append(mediaFields,
		field{name: "name", expr: "string"},
		field{name: "alternativeText", expr: "string | null"},
		field{name: "caption", expr: "string | null"},
		field{name: "url", expr: "string"},
		field{name: "width", expr: "number | null"},
		field{name: "height", expr: "number | null"},
		field{name: "mime", expr: "string"},
		field{name: "size", expr: "number"},
		field{name: "formats", expr: "Record<string, MediaFormat> | null"},
	)

	formatFields := []field{
		{name: "url", expr: "string"},
		{name: "width", expr: "number"},
		{name: "height", expr: "number"},
	}

	paginationFields := []field{
		{name: "page", expr: "number"},
		{name: "pageSize", expr: "number"},
		{name: "pageCount", expr: "number"},
		{name: "total", expr: "number"},
	}

	if opts.Dialect.TypeScript() {
		f.Add("export type ID = number;")
		f.Add(objectType(opts.Dialect, "BaseEntity", baseFields))
		f.Add(objectType(opts.Dialect, "Pagination", paginationFields))
		f.Add(strings.Join([]string{
			"export interface PagedResponse<T> {",
			"  data: T[];",
			"  meta: { pagination: Pagination };",
			"}",
		}, "\n"))
		f.Add(strings.Join([]string{
			"export interface FilterOperators<T> {",
			"  $eq?: T;",
			"  $ne?: T;",
			"  $in?: T[];",
			"  $notIn?: T[];",
			"  $lt?: T;",
			"  $lte?: T;",
			"  $gt?: T;",
			"  $gte?: T;",
			"  $null?: boolean;",
			"  $notNull?: boolean;",
			"}",
		}, "\n"))
		f.Add(objectType(opts.Dialect, "MediaFormat", formatFields))
		f.Add(objectType(opts.Dialect, "Media", mediaFields))
		if opts.BlocksRenderer {
			f.Add(`export type { BlocksContent } from "@strapi/blocks-react-renderer";`)
		} else {
			f.Add("export type BlocksContent = unknown[];")
		}
	} else {
		f.Add("/** @typedef {number} ID */")
		f.Add(jsTypedef("BaseEntity", "", "", baseFields))
		f.Add(jsTypedef("Pagination", "", "", paginationFields))
		f.Add(jsTypedef("MediaFormat", "", "", formatFields))
		f.Add(jsTypedef("Media", "", "", mediaFields))
		if opts.BlocksRenderer {
			f.Add(`/** @typedef {import("@strapi/blocks-react-renderer").BlocksContent} BlocksContent */`)
		} else {
			f.Add("/** @typedef {unknown[]} BlocksContent */")
		}
		if opts.Dialect.ModuleSystem == tsfile.ESM {
			// typedef-only file; an empty export keeps it a module
			f.Add("export {};")
		}
	}

	return emit(f, opts)
}

// clientFile emits the HTTP client the services call. The v4 wire format
// nests entity fields under an attributes wrapper and wraps references in
// { data } envelopes, so the v4 client flattens responses recursively; v5
// responses pass through untouched.
func (g SharedGenerator) clientFile(opts codegen.Options) codegen.File {
	f := tsfile.New(layout.SharedModule(layout.Client))
	d := opts.Dialect
	v4 := opts.Version == codegen.V4
	w := writer.New("  ")

	w.Line(`const BASE_URL = process.env.CMS_API_URL ?? "http://localhost:1337";`)
	w.Line(`const API_PREFIX = process.env.CMS_API_PREFIX ?? "/api";`)
	w.Line("const TOKEN = process.env.CMS_API_TOKEN;")
	f.Add(strings.TrimRight(w.String(), "\n"))

	// error type
	w = writer.New("  ")
	w.Block(fmt.Sprintf("%sclass CMSError extends Error {", d.Export()), "}", func() {
		if d.TypeScript() {
			w.Line("status: number;")
			w.Line("body: string;")
			w.Blank()
		}
		w.Block(ifTS(d, "constructor(status: number, body: string) {", "constructor(status, body) {"), "}", func() {
			w.Line("super(`CMS request failed with status ${status}`);")
			w.Line(`this.name = "CMSError";`)
			w.Line("this.status = status;")
			w.Line("this.body = body;")
		})
	})
	f.Add(strings.TrimRight(w.String(), "\n"))
	f.Export("CMSError")

	if d.TypeScript() {
		f.Add(strings.Join([]string{
			"export interface RequestOptions {",
			"  method?: string;",
			"  query?: Record<string, unknown>;",
			"  body?: unknown;",
			"}",
		}, "\n"))
	}

	// URL and auth helpers, shared with the upload module.
	w = writer.New("  ")
	w.Block(fmt.Sprintf("%sfunction cmsRequestUrl(%s)%s {", d.Export(), ifTS(d, "path: string", "path"), ifTS(d, ": URL", "")), "}", func() {
		w.Line("return new URL(`${API_PREFIX}${path}`, BASE_URL);")
	})
	f.Add(strings.TrimRight(w.String(), "\n"))
	f.Export("cmsRequestUrl")

	w = writer.New("  ")
	w.Block(fmt.Sprintf("%sfunction authHeaders()%s {", d.Export(), ifTS(d, ": Record<string, string>", "")), "}", func() {
		w.Line("return TOKEN ? { Authorization: `Bearer ${TOKEN}` } : {};")
	})
	f.Add(strings.TrimRight(w.String(), "\n"))
	f.Export("authHeaders")

	// query serialization using the bracketed deep format
	w = writer.New("  ")
	sig := ifTS(d, "function appendQuery(search: URLSearchParams, key: string, value: unknown): void {", "function appendQuery(search, key, value) {")
	w.Block(sig, "}", func() {
		w.Line("if (value === undefined || value === null) {")
		w.Indent()
		w.Line("return;")
		w.Dedent()
		w.Line("}")
		w.Block("if (Array.isArray(value)) {", "}", func() {
			w.Line("value.forEach((item, i) => appendQuery(search, `${key}[${i}]`, item));")
			w.Line("return;")
		})
		w.Block(`if (typeof value === "object") {`, "}", func() {
			w.Block("for (const [k, v] of Object.entries(value)) {", "}", func() {
				w.Line("appendQuery(search, `${key}[${k}]`, v);")
			})
			w.Line("return;")
		})
		w.Line("search.append(key, String(value));")
	})
	f.Add(strings.TrimRight(w.String(), "\n"))

	if v4 {
		f.Add(v4FlattenDecl(d))
	}

	// the fetch wrapper itself
	w = writer.New("  ")
	sig = ifTS(d, "async function cmsFetch(path: string, options: RequestOptions = {}): Promise<any> {", "async function cmsFetch(path, options = {}) {")
	if !d.TypeScript() {
		w.JSDoc("@param {string} path", "@param {{ method?: string, query?: Record<string, unknown>, body?: unknown }} [options]", "@returns {Promise<any>}")
	}
	w.Block(d.Export()+sig, "}", func() {
		w.Line("const url = cmsRequestUrl(path);")
		w.Block("for (const [key, value] of Object.entries(options.query ?? {})) {", "}", func() {
			if v4 {
				// v5 names the publish-state parameter `status`; v4 calls
				// it publicationState with preview/live values.
				w.Block(`if (key === "status") {`, "}", func() {
					w.Line(`appendQuery(url.searchParams, "publicationState", value === "draft" ? "preview" : "live");`)
					w.Line("continue;")
				})
			}
			w.Line("appendQuery(url.searchParams, key, value);")
		})
		w.Line(ifTS(d,
			`const headers: Record<string, string> = { "Content-Type": "application/json", ...authHeaders() };`,
			`const headers = { "Content-Type": "application/json", ...authHeaders() };`))
		w.Block("const res = await fetch(url, {", "});", func() {
			w.Line(`method: options.method ?? "GET",`)
			w.Line("headers,")
			w.Line("body: options.body === undefined ? undefined : JSON.stringify(options.body),")
		})
		w.Block("if (!res.ok) {", "}", func() {
			w.Line("throw new CMSError(res.status, await res.text());")
		})
		w.Block("if (res.status === 204) {", "}", func() {
			w.Line("return undefined;")
		})
		if v4 {
			w.Line("const json = await res.json();")
			w.Line("return { ...json, data: flattenEntity(json.data) };")
		} else {
			w.Line("return res.json();")
		}
	})
	f.Add(strings.TrimRight(w.String(), "\n"))
	f.Export("cmsFetch")

	return emit(f, opts)
}

// v4FlattenDecl renders the recursive attributes/data unwrapping shim. It
// also unwraps nested relation payloads, which follow the same { data }
// envelope convention at every level.
func v4FlattenDecl(d tsfile.Dialect) string {
	w := writer.New("  ")
	sig := ifTS(d, "function flattenEntity(node: any): any {", "function flattenEntity(node) {")
	w.Block(sig, "}", func() {
		w.Block("if (Array.isArray(node)) {", "}", func() {
			w.Line("return node.map(flattenEntity);")
		})
		w.Block(`if (node === null || typeof node !== "object") {`, "}", func() {
			w.Line("return node;")
		})
		w.Block(`if ("attributes" in node) {`, "}", func() {
			w.Line("const { attributes, ...rest } = node;")
			w.Line("return { ...rest, ...flattenEntity(attributes) };")
		})
		w.Line(ifTS(d, "const out: Record<string, any> = {};", "const out = {};"))
		w.Block("for (const [key, value] of Object.entries(node)) {", "}", func() {
			w.Block(`if (value !== null && typeof value === "object" && "data" in value && Object.keys(value).length === 1) {`, "}", func() {
				w.Line("out[key] = flattenEntity(value.data);")
			})
			w.Line("else {")
			w.Indent()
			w.Line("out[key] = flattenEntity(value);")
			w.Dedent()
			w.Line("}")
		})
		w.Line("return out;")
	})
	return strings.TrimRight(w.String(), "\n")
}

// localesFile emits the locale registry; when the source CMS has no
// localization the module keeps its shape but holds no locales.
func (g SharedGenerator) localesFile(s *schema.ParsedSchema, opts codegen.Options) codegen.File {
	f := tsfile.New(layout.SharedModule(layout.Locales))
	d := opts.Dialect

	codes := make([]string, 0, len(s.Locales))
	defaultLocale := ""
	for _, l := range s.Locales {
		codes = append(codes, fmt.Sprintf("%q", l.Code))
		if l.IsDefault {
			defaultLocale = l.Code
		}
	}
	if defaultLocale == "" && len(s.Locales) > 0 {
		defaultLocale = s.Locales[0].Code
	}

	list := strings.Join(codes, ", ")
	if d.TypeScript() {
		f.Add(fmt.Sprintf("export const LOCALES = [%s] as const;", list))
		if len(codes) > 0 {
			f.Add("export type Locale = (typeof LOCALES)[number];")
			f.Add(fmt.Sprintf("export const DEFAULT_LOCALE: Locale = %q;", defaultLocale))
		} else {
			f.Add("export type Locale = string;")
			f.Add("export const DEFAULT_LOCALE: Locale | undefined = undefined;")
		}
	} else {
		f.Add("/** @typedef {string} Locale */")
		f.Add(fmt.Sprintf("%sconst LOCALES = [%s];", d.Export(), list))
		if len(codes) > 0 {
			f.Add(fmt.Sprintf("%sconst DEFAULT_LOCALE = %q;", d.Export(), defaultLocale))
		} else {
			f.Add(d.Export() + "const DEFAULT_LOCALE = undefined;")
		}
		f.Export("LOCALES")
		f.Export("DEFAULT_LOCALE")
	}

	return emit(f, opts)
}

// uploadFile emits the multipart upload helpers. Media attributes validate
// as numeric file ids, so these helpers return ids for linking.
func (g SharedGenerator) uploadFile(opts codegen.Options) codegen.File {
	f := tsfile.New(layout.SharedModule(layout.Upload))
	d := opts.Dialect
	importNames(f, layout.SharedModule(layout.Client), opts, false, "CMSError", "authHeaders", "cmsRequestUrl")

	if d.TypeScript() {
		f.Add(strings.Join([]string{
			"export interface UploadFileInfo {",
			"  name?: string;",
			"  alternativeText?: string;",
			"  caption?: string;",
			"}",
		}, "\n"))
	}

	(&fn{
		doc:    "Upload several files and return their numeric ids.",
		name:   "uploadFiles",
		params: []param{{name: "files", typ: "Blob[]"}, {name: "info", typ: ifTS(d, "UploadFileInfo", "{ name?: string, alternativeText?: string, caption?: string }"), def: "{}"}},
		ret:    "number[]",
		body: func(w *writer.Writer) {
			w.Line("const form = new FormData();")
			w.Block("for (const file of files) {", "}", func() {
				w.Line(`form.append("files", file);`)
			})
			w.Block("if (Object.keys(info).length > 0) {", "}", func() {
				w.Line(`form.append("fileInfo", JSON.stringify(info));`)
			})
			w.Block(`const res = await fetch(cmsRequestUrl("/upload"), {`, "});", func() {
				w.Line(`method: "POST",`)
				w.Line("headers: authHeaders(),")
				w.Line("body: form,")
			})
			w.Block("if (!res.ok) {", "}", func() {
				w.Line("throw new CMSError(res.status, await res.text());")
			})
			w.Line("const uploaded = await res.json();")
			w.Line(ifTS(d, "return uploaded.map((file: { id: number }) => file.id);", "return uploaded.map((file) => file.id);"))
		},
	}).render(f, d)

	(&fn{
		doc:    "Upload one file and return its numeric id.",
		name:   "uploadFile",
		params: []param{{name: "file", typ: "Blob"}, {name: "info", typ: ifTS(d, "UploadFileInfo", "{ name?: string, alternativeText?: string, caption?: string }"), def: "{}"}},
		ret:    "number",
		body: func(w *writer.Writer) {
			w.Line("const ids = await uploadFiles([file], info);")
			w.Line("return ids[0];")
		},
	}).render(f, d)

	return emit(f, opts)
}
