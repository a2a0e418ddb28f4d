package leafy

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/google/uuid"
	"github.com/leafyhollows/leafy/spritert/rt/core"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

type AssetId string

type TextureAsset struct {
	Path   string
	Image  *image.RGBA
	Format string
}

func (t TextureAsset) Width() int  { return t.Image.Rect.Dx() }
func (t TextureAsset) Height() int { return t.Image.Rect.Dy() }

// AssetServer keeps decoded textures by id.
type AssetServer struct {
	textures map[AssetId]TextureAsset
}

type AssetServerModule struct{}

func NewAssetServer() *AssetServer {
	return &AssetServer{textures: make(map[AssetId]TextureAsset)}
}

func (AssetServerModule) Install(app *App, cmd *Commands) {
	ensureAssetServer(app)
}

func ensureAssetServer(app *App) *AssetServer {
	if server, ok := resourceOf[AssetServer](app); ok {
		return server
	}
	server := NewAssetServer()
	app.addResources(server)
	return server
}

// LoadTexture decodes a png, jpeg, gif, bmp or webp file.
func (server *AssetServer) LoadTexture(filename string) (AssetId, error) {
	file, err := os.Open(filename)
	if err != nil {
		return "", fmt.Errorf("load texture: %w", err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return "", fmt.Errorf("decode texture %s: %w", filename, err)
	}

	id := makeAssetId()
	server.textures[id] = TextureAsset{
		Path:   filename,
		Image:  core.ToRGBA(img),
		Format: format,
	}
	return id, nil
}

// CreateTexture registers an in-memory image.
func (server *AssetServer) CreateTexture(img image.Image) AssetId {
	id := makeAssetId()
	server.textures[id] = TextureAsset{
		Image:  core.ToRGBA(img),
		Format: "memory",
	}
	return id
}

func (server *AssetServer) Texture(id AssetId) (TextureAsset, bool) {
	tex, ok := server.textures[id]
	return tex, ok
}

func (server *AssetServer) Len() int { return len(server.textures) }

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}
