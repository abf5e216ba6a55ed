package dashboard

// indexHTML is the single-page dashboard. It consumes the JSON API and
// carries no build step.
const indexHTML = `<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>MEDIASCAN - Observatoire des médias burkinabè</title>
<style>
  body { font-family: system-ui, sans-serif; margin: 0; background: #f4f4f6; color: #1c1c28; }
  header { background: #171738; color: #fff; padding: 16px 32px; display: flex; align-items: baseline; gap: 16px; }
  header h1 { font-size: 20px; margin: 0; }
  header span { color: #b9b9cf; font-size: 13px; }
  main { max-width: 1100px; margin: 24px auto; padding: 0 16px; }
  .cards { display: grid; grid-template-columns: repeat(auto-fit, minmax(160px, 1fr)); gap: 12px; }
  .card { background: #fff; border-radius: 8px; padding: 14px 16px; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
  .card .value { font-size: 26px; font-weight: 700; }
  .card .label { font-size: 12px; color: #666; text-transform: uppercase; }
  section { margin-top: 28px; }
  section h2 { font-size: 15px; text-transform: uppercase; letter-spacing: .05em; color: #444; }
  table { width: 100%; border-collapse: collapse; background: #fff; border-radius: 8px; overflow: hidden; }
  th, td { text-align: left; padding: 8px 12px; font-size: 14px; border-bottom: 1px solid #eee; }
  th { background: #fafafc; font-size: 12px; text-transform: uppercase; color: #666; }
  tr.sensitive td { background: #fff3f2; }
  .muted { color: #888; font-size: 13px; }
  button { background: #171738; color: #fff; border: 0; border-radius: 6px; padding: 8px 14px; cursor: pointer; }
</style>
</head>
<body>
<header>
  <h1>MEDIASCAN</h1>
  <span>Observatoire des médias burkinabè</span>
  <button style="margin-left:auto" onclick="reload()">Recharger les données</button>
</header>
<main>
  <div class="cards" id="cards"></div>
  <section>
    <h2>Classement des médias</h2>
    <table id="ranking"><thead><tr>
      <th>#</th><th>Média</th><th>Articles</th><th>Engagement</th><th>Score</th><th>Actif 90j</th>
    </tr></thead><tbody></tbody></table>
  </section>
  <section>
    <h2>Articles par catégorie</h2>
    <table id="categories"><thead><tr>
      <th>Catégorie</th><th>Articles</th><th>Engagement</th>
    </tr></thead><tbody></tbody></table>
  </section>
  <section>
    <h2>Top articles par engagement</h2>
    <table id="top"><thead><tr>
      <th>Titre</th><th>Média</th><th>Catégorie</th><th>Engagement</th>
    </tr></thead><tbody></tbody></table>
  </section>
  <section>
    <h2>Contenus sensibles</h2>
    <p class="muted" id="sensitive-count"></p>
    <table id="sensitive"><thead><tr>
      <th>Titre</th><th>Média</th><th>Score de toxicité</th>
    </tr></thead><tbody></tbody></table>
  </section>
  <section>
    <h2>Mots-clés des titres</h2>
    <p class="muted" id="keywords"></p>
  </section>
</main>
<script>
async function get(path) {
  const res = await fetch(path);
  if (!res.ok) throw new Error(path + ': ' + res.status);
  return res.json();
}
function fill(id, rows, render) {
  const tbody = document.querySelector('#' + id + ' tbody');
  tbody.innerHTML = rows.map(render).join('');
}
function esc(s) {
  return String(s).replace(/[&<>"]/g, c => ({'&':'&amp;','<':'&lt;','>':'&gt;','"':'&quot;'}[c]));
}
async function refresh() {
  try {
    const stats = await get('/api/stats');
    document.getElementById('cards').innerHTML = [
      ['Articles', stats.total_articles],
      ['Médias', stats.total_medias],
      ['Engagement total', stats.total_engagement],
      ['Sensibles', stats.articles_sensibles + ' (' + stats.taux_sensible.toFixed(1) + '%)'],
    ].map(([l, v]) => '<div class="card"><div class="value">' + esc(v) + '</div><div class="label">' + esc(l) + '</div></div>').join('');

    const ranking = await get('/api/ranking');
    fill('ranking', ranking.data, m =>
      '<tr><td>' + m.rang + '</td><td>' + esc(m.nom) + '</td><td>' + m.nb_articles +
      '</td><td>' + m.engagement_total + '</td><td>' + m.score_influence.toFixed(2) +
      '</td><td>' + (m.actif_90j ? 'Oui' : 'Non') + '</td></tr>');

    const cats = await get('/api/categories');
    fill('categories', cats.data, c =>
      '<tr><td>' + esc(c.categorie) + '</td><td>' + c.nb_articles + '</td><td>' + c.engagement_total + '</td></tr>');

    const top = await get('/api/top?n=10');
    fill('top', top.data, a =>
      '<tr><td><a href="' + esc(a.url) + '">' + esc(a.titre) + '</a></td><td>' + esc(a.media) +
      '</td><td>' + esc(a.categorie) + '</td><td>' + a.score + '</td></tr>');

    const sensitive = await get('/api/sensitive');
    document.getElementById('sensitive-count').textContent =
      sensitive.count + ' contenu(s) sensible(s) détecté(s)';
    fill('sensitive', sensitive.data.slice(0, 10), a =>
      '<tr class="sensitive"><td>' + esc(a.titre) + '</td><td>' + esc(a.media) +
      '</td><td>' + a.toxicite_score.toFixed(2) + '</td></tr>');

    const kw = await get('/api/keywords?n=15');
    document.getElementById('keywords').textContent =
      kw.data.map(k => k.mot + ' (' + k.count + ')').join('  ·  ');
  } catch (err) {
    document.getElementById('cards').innerHTML =
      '<div class="card"><div class="value">—</div><div class="label">' + esc(err.message) + '</div></div>';
  }
}
async function reload() {
  await fetch('/api/reload', { method: 'POST' });
  refresh();
}
refresh();
</script>
</body>
</html>
`
