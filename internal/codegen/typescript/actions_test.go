package typescript

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmsgen/cmsgen/internal/codegen/tsfile"
)

func TestActionsGenerator_CollectionActions(t *testing.T) {
	// Test plan:
	// - action modules carry the "use server" directive under the banner
	// - write actions validate input with safeParse before calling the service
	// - every action returns a data-or-error envelope instead of throwing
	opts := tsOptions()
	opts.Artifacts.Actions = true
	files, err := ActionsGenerator{}.Generate(testSchema(), opts)
	require.NoError(t, err)

	article := fileByPath(t, files, "actions/article.ts").Content
	lines := strings.Split(article, "\n")
	require.Greater(t, len(lines), 2)
	assert.Equal(t, tsfile.Banner, lines[0])
	assert.Equal(t, `"use server";`, lines[1])

	assert.Contains(t, article, "export async function getArticlesAction(params: GetArticlesParams = {}): Promise<{ data: PagedResponse<Article> } | { error: string }> {")
	assert.Contains(t, article, "export async function getArticleAction(documentId: string")
	assert.Contains(t, article, "const parsed = articleCreateSchema.safeParse(input);")
	assert.Contains(t, article, "const parsed = articleUpdateSchema.safeParse(input);")
	assert.Contains(t, article, "return { error: parsed.error.message };")
	assert.Contains(t, article, "return { error: error instanceof Error ? error.message : String(error) };")
	assert.Contains(t, article, "export async function deleteArticleAction(documentId: string): Promise<{ data: null } | { error: string }> {")
	assert.Contains(t, article, "return { data: null };")

	// wired to the service layer
	assert.Contains(t, article, `from "../services/article";`)
	assert.Contains(t, article, `import { articleCreateSchema, articleUpdateSchema } from "../schemas/article";`)
}

func TestActionsGenerator_SingleActions(t *testing.T) {
	opts := tsOptions()
	opts.Artifacts.Actions = true
	files, err := ActionsGenerator{}.Generate(testSchema(), opts)
	require.NoError(t, err)

	homepage := fileByPath(t, files, "actions/homepage.ts").Content
	assert.Contains(t, homepage, "export async function getHomepageAction(params: GetHomepageParams = {}):")
	assert.Contains(t, homepage, "export async function updateHomepageAction(input: unknown):")
	assert.Contains(t, homepage, "export async function deleteHomepageAction(): Promise<{ data: null } | { error: string }> {")
	assert.NotContains(t, homepage, "createHomepageAction")

	// no create action, so the create validator is never pulled in
	assert.NotContains(t, homepage, "homepageCreateSchema")
	assert.Contains(t, homepage, `import { homepageUpdateSchema } from "../schemas/homepage";`)
}

func TestActionsGenerator_FallbackWithoutSchemas(t *testing.T) {
	// with the schemas artifact disabled the validators degrade to inline
	// permissive records
	opts := tsOptions()
	opts.Artifacts.Actions = true
	opts.Artifacts.Schemas = false
	files, err := ActionsGenerator{}.Generate(testSchema(), opts)
	require.NoError(t, err)

	article := fileByPath(t, files, "actions/article.ts").Content
	assert.Contains(t, article, `import { z } from "zod";`)
	assert.Contains(t, article, "const articleCreateSchema = z.record(z.string(), z.unknown());")
	assert.Contains(t, article, "const articleUpdateSchema = z.record(z.string(), z.unknown());")
	assert.NotContains(t, article, `from "../schemas/article";`)

	// singles only declare the validator their update action uses
	homepage := fileByPath(t, files, "actions/homepage.ts").Content
	assert.Contains(t, homepage, "const homepageUpdateSchema = z.record(z.string(), z.unknown());")
	assert.NotContains(t, homepage, "homepageCreateSchema")
}
