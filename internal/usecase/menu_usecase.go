package usecase

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// 受け付ける画像拡張子（小文字で比較）
var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// MenuUsecaseは店舗ごとのメニュー画像ディレクトリを扱う。
// 追記専用：新規ファイルを置くだけで、既存ファイルは書き換えない。
type MenuUsecase struct {
	baseDir string
	idGen   IDGenerator
	logger  *logrus.Logger
}

func NewMenuUsecase(baseDir string, idGen IDGenerator, logger *logrus.Logger) *MenuUsecase {
	return &MenuUsecase{baseDir: baseDir, idGen: idGen, logger: logger}
}

// ListImagesは店舗の画像ファイル名をソート済みで返す。
// ディレクトリ未作成は「画像なし」として扱う。
func (u *MenuUsecase) ListImages(shopKey string) ([]string, error) {
	dir := filepath.Join(u.baseDir, shopKey)

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		u.logger.WithError(err).Error("read image dir failed")
		return nil, NewHTTPError(http.StatusInternalServerError, "failed to list images")
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if allowedImageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// SaveImageはアップロードを乱数名で保存して保存名を返す。
// 乱数名なので同時アップロードでもファイル名は衝突しない。
func (u *MenuUsecase) SaveImage(shopKey string, filename string, src io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExts[ext] {
		return "", NewHTTPError(http.StatusBadRequest, "unsupported image type")
	}

	dir := filepath.Join(u.baseDir, shopKey)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		u.logger.WithError(err).Error("create image dir failed")
		return "", NewHTTPError(http.StatusInternalServerError, "failed to save image")
	}

	name := u.idGen.NewID() + ext
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		u.logger.WithError(err).Error("create image file failed")
		return "", NewHTTPError(http.StatusInternalServerError, "failed to save image")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		u.logger.WithError(err).Error("write image file failed")
		return "", NewHTTPError(http.StatusInternalServerError, "failed to save image")
	}

	u.logger.WithFields(logrus.Fields{
		"shop_key": shopKey,
		"file":     name,
	}).Info("menu image uploaded")

	return name, nil
}
